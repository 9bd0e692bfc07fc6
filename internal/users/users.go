// Package users keeps each user's champion and quote rate and decides when a
// message of theirs is relayed as a champion quote.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/abdulachik/lolquotes/internal/catalog"
	"github.com/abdulachik/lolquotes/internal/db"
)

const (
	// DefaultRate is the quote rate of a user who never set one.
	DefaultRate = 10

	// MaxRate quotes every message.
	MaxRate = 100
)

var (
	// ErrInvalidRate is returned for rates outside 0-100.
	ErrInvalidRate = errors.New("rate must be between 0 and 100")

	// ErrNoChampions is returned when a new user needs a champion but the
	// catalog is empty.
	ErrNoChampions = errors.New("no champions to assign")
)

// Preference is a user's champion and quote rate.
type Preference struct {
	UserID   int64
	Champion string
	Rate     int
}

// Decision is the outcome of one relay roll for a message.
type Decision struct {
	Preference
	Roll  int
	Relay bool

	// Quote and Icon are set when Relay is true.
	Quote string
	Icon  string
}

// Registry reads and writes user preferences. Preferences are cached until
// the user changes them.
type Registry struct {
	store   *db.Store
	catalog *catalog.Catalog

	mu    sync.Mutex
	rng   *rand.Rand
	cache map[int64]Preference
}

// Config holds configuration for the registry.
type Config struct {
	Store   *db.Store
	Catalog *catalog.Catalog
	Rand    *rand.Rand // Optional; seeded randomly when nil
}

// New creates a new registry.
func New(cfg Config) *Registry {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := cfg.Catalog
	if c == nil {
		c = catalog.New(nil)
	}

	return &Registry{
		store:   cfg.Store,
		catalog: c,
		rng:     rng,
		cache:   make(map[int64]Preference),
	}
}

// ChampionAndRate returns the user's preference. A user seen for the first
// time is stored with a random champion and the default rate.
func (r *Registry) ChampionAndRate(ctx context.Context, userID int64) (Preference, error) {
	r.mu.Lock()
	pref, ok := r.cache[userID]
	r.mu.Unlock()
	if ok {
		return pref, nil
	}

	user, err := r.store.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = r.createUser(ctx, userID)
	}
	if err != nil {
		return Preference{}, fmt.Errorf("get user %d: %w", userID, err)
	}

	pref = Preference{UserID: user.ID, Champion: user.Champion, Rate: int(user.Rate)}

	r.mu.Lock()
	r.cache[userID] = pref
	r.mu.Unlock()

	return pref, nil
}

// SetChampion stores the user's champion and returns its catalog spelling.
func (r *Registry) SetChampion(ctx context.Context, userID int64, name string) (string, error) {
	entry, err := r.catalog.Lookup(name)
	if err != nil {
		return "", err
	}

	err = r.store.SetUserChampion(ctx, db.SetUserChampionParams{
		ID:       userID,
		Champion: entry.Name,
		Rate:     DefaultRate,
	})
	if err != nil {
		return "", fmt.Errorf("set champion for user %d: %w", userID, err)
	}

	r.forget(userID)
	return entry.Name, nil
}

// SetRate stores the percentage of the user's messages that are quoted.
// A user seen for the first time also gets a random champion.
func (r *Registry) SetRate(ctx context.Context, userID int64, rate int) error {
	if rate < 0 || rate > MaxRate {
		return fmt.Errorf("%w, got %d", ErrInvalidRate, rate)
	}

	champion, err := r.randomChampion()
	if err != nil {
		return err
	}

	err = r.store.SetUserRate(ctx, db.SetUserRateParams{
		ID:       userID,
		Champion: champion,
		Rate:     int64(rate),
	})
	if err != nil {
		return fmt.Errorf("set rate for user %d: %w", userID, err)
	}

	r.forget(userID)
	return nil
}

// Decide rolls whether a message from the user is relayed and picks the quote.
// Nothing is relayed when the champion has no quotes.
func (r *Registry) Decide(ctx context.Context, userID int64, mentioned bool) (Decision, error) {
	pref, err := r.ChampionAndRate(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	entry, err := r.catalog.Get(pref.Champion)
	if err != nil {
		return Decision{}, fmt.Errorf("champion of user %d: %w", userID, err)
	}

	r.mu.Lock()
	roll := r.rng.IntN(MaxRate)
	quote, ok, _ := r.catalog.Random(entry.Name, r.rng)
	r.mu.Unlock()

	d := Decision{
		Preference: pref,
		Roll:       roll,
		Relay:      ok && ShouldRelay(roll, pref.Rate, mentioned),
	}
	if d.Relay {
		d.Quote = quote
		d.Icon = entry.Icon
	}
	return d, nil
}

// ShouldRelay reports whether a message is relayed: always when the bot is
// mentioned, otherwise when roll (0-99) is at or below rate.
func ShouldRelay(roll, rate int, mentioned bool) bool {
	return mentioned || roll <= rate
}

// createUser stores a new user with a random champion. A concurrent insert
// wins, so the stored row is read back.
func (r *Registry) createUser(ctx context.Context, userID int64) (db.User, error) {
	champion, err := r.randomChampion()
	if err != nil {
		return db.User{}, err
	}

	err = r.store.CreateUser(ctx, db.CreateUserParams{ID: userID, Champion: champion, Rate: DefaultRate})
	if err != nil {
		return db.User{}, fmt.Errorf("create user %d: %w", userID, err)
	}

	user, err := r.store.GetUser(ctx, userID)
	if err != nil {
		return db.User{}, err
	}

	slog.Debug("assigned champion", "user", userID, "champion", user.Champion)
	return user, nil
}

func (r *Registry) randomChampion() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.catalog.RandomChampion(r.rng)
	if name == "" {
		return "", ErrNoChampions
	}
	return name, nil
}

func (r *Registry) forget(userID int64) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}
