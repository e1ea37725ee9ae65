package allocation

import (
	"fmt"
	"sort"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// Promotion describes the substitute selected to fill a vacated starter
// position. The starter rank is deliberately left unset: only a full
// allocation run assigns dense ranks, replacement changes membership only.
type Promotion struct {
	ParticipationID string
	PlayerID        string
	Position        string
	// DeferPayment is set when the promotion happens after the payment
	// deadline; the promoted player cannot be required to pay on the
	// original schedule.
	DeferPayment bool
}

// Replace selects the best-ranked substitute eligible for the vacated
// position: lowest substitute rank first, and only substitutes whose
// preferred positions actually contain the vacated one. A nil promotion
// with a nil error means no eligible substitute exists; that is a reported
// steady state for the organizer, not a failure.
func (e *Engine) Replace(substitutes []Candidate, vacatedPosition string, postDeadline bool) (*Promotion, error) {
	if !e.catalog.Valid(vacatedPosition) {
		return nil, fmt.Errorf("cannot replace into %q: unknown position", vacatedPosition)
	}

	ordered := make([]Candidate, len(substitutes))
	copy(ordered, substitutes)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := ordered[i].Participation.SubstituteRank, ordered[j].Participation.SubstituteRank
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri < *rj
	})

	for _, c := range ordered {
		if c.Participation.Status != volley.ParticipationSubstitute {
			continue
		}
		for _, preferred := range c.Player.PreferredPositions {
			if preferred == vacatedPosition {
				return &Promotion{
					ParticipationID: c.Participation.ID,
					PlayerID:        c.Player.ID,
					Position:        vacatedPosition,
					DeferPayment:    postDeadline,
				}, nil
			}
		}
	}
	return nil, nil
}
