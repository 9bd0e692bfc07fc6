package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/lolquotes/internal/db"
	"github.com/abdulachik/lolquotes/internal/notify"
	"github.com/abdulachik/lolquotes/internal/updater"
)

type fakeRefresher struct {
	calls  atomic.Int32
	report *updater.Report
	err    error
}

func (f *fakeRefresher) Refresh(ctx context.Context) (*updater.Report, error) {
	f.calls.Add(1)
	return f.report, f.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Send(ctx context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func newTestScheduler(t *testing.T, r Refresher, n notify.Notifier, onRefresh func(*updater.Report)) *Scheduler {
	t.Helper()
	s, err := New(Config{
		Refresher: r,
		Notifier:  n,
		Interval:  time.Hour,
		OnRefresh: onRefresh,
	})
	require.NoError(t, err)
	return s
}

func TestNew_InvalidInterval(t *testing.T) {
	_, err := New(Config{Refresher: &fakeRefresher{}})
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Run("completed refresh", func(t *testing.T) {
		refresher := &fakeRefresher{report: &updater.Report{
			RunID: "run-1", Status: db.RunStatusCompleted, Champions: 3, Quotes: 40,
		}}
		notifier := &recordingNotifier{}
		var got *updater.Report
		s := newTestScheduler(t, refresher, notifier, func(r *updater.Report) { got = r })

		s.RunOnce(context.Background())

		status := s.Health().GetStatus(ComponentRefresh)
		require.NotNil(t, status)
		assert.True(t, status.Healthy)
		assert.Equal(t, "40 quotes from 3 champions", status.Message)
		assert.Empty(t, notifier.sent)
		assert.Equal(t, "run-1", got.RunID)
	})

	t.Run("partial refresh notifies", func(t *testing.T) {
		refresher := &fakeRefresher{report: &updater.Report{
			RunID:     "run-2",
			Status:    db.RunStatusPartial,
			Champions: 3,
			Failures:  []updater.Failure{{Champion: "Zac", Err: errors.New("timeout")}},
		}}
		notifier := &recordingNotifier{}
		s := newTestScheduler(t, refresher, notifier, nil)

		s.RunOnce(context.Background())

		status := s.Health().GetStatus(ComponentRefresh)
		assert.True(t, status.Healthy)
		assert.Contains(t, status.Message, "partial")

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "Quote refresh partially failed", notifier.sent[0].Subject)
		assert.Equal(t, "run run-2: 1 of 3 champions failed\nZac: timeout", notifier.sent[0].Body)
	})

	t.Run("failed refresh is unhealthy", func(t *testing.T) {
		refresher := &fakeRefresher{report: &updater.Report{
			Status:    db.RunStatusFailed,
			Champions: 1,
			Failures:  []updater.Failure{{Champion: "Ahri", Err: errors.New("boom")}},
		}}
		notifier := &recordingNotifier{}
		s := newTestScheduler(t, refresher, notifier, nil)

		s.RunOnce(context.Background())

		assert.False(t, s.Health().IsOverallHealthy())
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "Quote refresh failed", notifier.sent[0].Subject)
	})

	t.Run("refresh error", func(t *testing.T) {
		refresher := &fakeRefresher{err: errors.New("fetch roster: cdn down")}
		notifier := &recordingNotifier{}
		called := false
		s := newTestScheduler(t, refresher, notifier, func(*updater.Report) { called = true })

		s.RunOnce(context.Background())

		status := s.Health().GetStatus(ComponentRefresh)
		assert.False(t, status.Healthy)
		assert.Equal(t, "fetch roster: cdn down", status.Message)
		assert.False(t, called)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "fetch roster: cdn down", notifier.sent[0].Body)
	})
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	refresher := &fakeRefresher{report: &updater.Report{Status: db.RunStatusCompleted}}
	s, err := New(Config{
		Refresher:  refresher,
		Notifier:   &recordingNotifier{},
		Interval:   time.Hour,
		RunOnStart: true,
	})
	require.NoError(t, err)

	id, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	assert.Eventually(t, func() bool {
		return refresher.calls.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.True(t, s.Health().GetStatus(ComponentRefresh).Healthy)
}
