package lifecycle

import (
	"errors"
	"fmt"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// ErrIllegalTransition is returned for any transition the table does not
// allow. The current state is always surfaced to the caller.
var ErrIllegalTransition = errors.New("illegal lifecycle transition")

// transitions is the closed transition table of the match state machine.
//
//	OPEN ──deadline──▶ VERIFYING ──admin──▶ CLOSED ──start──▶ PLAYED
//	  ▲                    │
//	  └──────reopen────────┘
//
// Every non-terminal state may also be cancelled by an admin. PLAYED and
// CANCELLED are terminal.
var transitions = map[volley.MatchState][]volley.MatchState{
	volley.StateOpen:      {volley.StateVerifying, volley.StateCancelled},
	volley.StateVerifying: {volley.StateClosed, volley.StateOpen, volley.StateCancelled},
	volley.StateClosed:    {volley.StatePlayed, volley.StateCancelled},
	volley.StatePlayed:    {},
	volley.StateCancelled: {},
}

// CanTransition reports whether the table allows moving from one state to
// another.
func CanTransition(from, to volley.MatchState) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Validate returns ErrIllegalTransition (with both states named) when the
// table forbids the move.
func Validate(from, to volley.MatchState) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}
