package guard_test

import (
	"errors"
	"testing"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/guard"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaseStore struct {
	acquireErr   error
	releaseErr   error
	acquired     []string
	released     []string
	releaseOwner string
	acquireOwner string
}

func (f *fakeLeaseStore) AcquireMatchLease(matchID, owner string, ttl time.Duration) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired = append(f.acquired, matchID)
	f.acquireOwner = owner
	return nil
}

func (f *fakeLeaseStore) ReleaseMatchLease(matchID, owner string) error {
	f.released = append(f.released, matchID)
	f.releaseOwner = owner
	return f.releaseErr
}

func TestDoRunsUnderLease(t *testing.T) {
	store := &fakeLeaseStore{}
	g := guard.New(store, 30*time.Second)

	ran := false
	err := g.Do("match-1", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"match-1"}, store.acquired)
	assert.Equal(t, []string{"match-1"}, store.released)
	assert.Equal(t, store.acquireOwner, store.releaseOwner)
	assert.NotEmpty(t, store.acquireOwner)
}

func TestDoReleasesOnFailure(t *testing.T) {
	store := &fakeLeaseStore{}
	g := guard.New(store, 30*time.Second)

	boom := errors.New("boom")
	err := g.Do("match-1", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"match-1"}, store.released)
}

func TestDoAbortsWhenBusy(t *testing.T) {
	store := &fakeLeaseStore{acquireErr: roster.ErrLockBusy}
	busyCount := 0
	g := guard.New(store, 30*time.Second, guard.WithOnBusy(func() { busyCount++ }))

	ran := false
	err := g.Do("match-1", func() error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, roster.ErrLockBusy)
	assert.False(t, ran)
	assert.Equal(t, 1, busyCount)
	assert.Empty(t, store.released)
}

func TestDoReleaseFailureDoesNotMaskResult(t *testing.T) {
	store := &fakeLeaseStore{releaseErr: errors.New("write timeout")}
	g := guard.New(store, 30*time.Second)

	ran := false
	err := g.Do("match-1", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"match-1"}, store.released)
}

func TestDoPropagatesOtherAcquireErrors(t *testing.T) {
	store := &fakeLeaseStore{acquireErr: roster.ErrMatchNotFound}
	busyCount := 0
	g := guard.New(store, 30*time.Second, guard.WithOnBusy(func() { busyCount++ }))

	err := g.Do("match-1", func() error { return nil })
	assert.ErrorIs(t, err, roster.ErrMatchNotFound)
	assert.Zero(t, busyCount)
}
