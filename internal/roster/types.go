package roster

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for rosters.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Sentinel errors surfaced to callers. Handlers map these onto HTTP codes.
var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrGroupNotFound         = errors.New("group not found")
	// ErrAlreadyJoined means the player already has an active participation
	// for the match.
	ErrAlreadyJoined = errors.New("player already joined this match")
	// ErrLockBusy means another allocation or replacement run holds the
	// match lease. Callers abort rather than wait.
	ErrLockBusy = errors.New("match operation already in progress")
	// ErrStateConflict means the match state changed under a compare-and-set
	// transition; the requested transition did not apply.
	ErrStateConflict = errors.New("match state changed concurrently")
)
