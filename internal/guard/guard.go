package guard

import (
	"errors"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store is the lease surface the guard needs from the roster store.
type Store interface {
	AcquireMatchLease(matchID, owner string, ttl time.Duration) error
	ReleaseMatchLease(matchID, owner string) error
}

// Guard serializes allocation and replacement runs per match. Each run takes
// a lease with a fresh owner token and a TTL; the TTL bounds how long a
// crashed holder can keep a match locked.
type Guard struct {
	store    Store
	ttl      time.Duration
	newOwner func() string
	onBusy   func()
}

// Option configures a Guard.
type Option func(*Guard)

// WithOnBusy registers a callback fired on lease contention, typically a
// metrics counter.
func WithOnBusy(fn func()) Option {
	return func(g *Guard) { g.onBusy = fn }
}

// New creates a guard with the given lease TTL.
func New(store Store, ttl time.Duration, opts ...Option) *Guard {
	g := &Guard{
		store:    store,
		ttl:      ttl,
		newOwner: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do runs fn while holding the match lease. The lease is released on every
// exit path, including when fn fails. A held lease yields
// roster.ErrLockBusy without blocking; the caller aborts and a later event
// re-triggers the work.
func (g *Guard) Do(matchID string, fn func() error) error {
	owner := g.newOwner()
	if err := g.store.AcquireMatchLease(matchID, owner, g.ttl); err != nil {
		if errors.Is(err, roster.ErrLockBusy) && g.onBusy != nil {
			g.onBusy()
		}
		return err
	}
	defer func() {
		if err := g.store.ReleaseMatchLease(matchID, owner); err != nil {
			// The match stays locked until the TTL expires.
			log.Error("Failed to release match lease", "error", err, "matchID", matchID, "owner", owner)
		}
	}()
	return fn()
}
