// Package dbtest provides a migrated throwaway database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestStore opens a migrated store under t.TempDir, closed on cleanup.
func NewTestStore(t testing.TB) *db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
