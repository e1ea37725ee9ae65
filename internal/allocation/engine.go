package allocation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/scoring"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

// ErrNoPreferredPositions is returned when a candidate has an empty
// preferred-positions list. That is undefined input and allocation refuses
// to run rather than silently dropping the candidate.
var ErrNoPreferredPositions = errors.New("candidate has no preferred positions")

// Engine ranks the candidate pool of a match into starters and substitutes
// under the match's per-position slot quotas.
type Engine struct {
	catalog *positions.Catalog
}

// New creates an allocation engine against a position catalog.
func New(catalog *positions.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Candidate couples an active participation with its player profile and the
// player's per-group played counter.
type Candidate struct {
	Participation *volley.Participation
	Player        *volley.Player
	PlayedInGroup int
}

// Result is the complete outcome of one allocation run. It is persisted as
// a single atomic batch.
type Result struct {
	Starters    []volley.Assignment
	Substitutes []volley.Assignment
	// Overflow holds candidates past the substitute-pool capacity. They
	// stay pending, unranked.
	Overflow []volley.Assignment
}

// Assignments flattens the result in persistence order.
func (r *Result) Assignments() []volley.Assignment {
	out := make([]volley.Assignment, 0, len(r.Starters)+len(r.Substitutes)+len(r.Overflow))
	out = append(out, r.Starters...)
	out = append(out, r.Substitutes...)
	out = append(out, r.Overflow...)
	return out
}

// Allocate partitions the active candidates of a match into starters and
// substitutes. It only runs while the match is open; in any later state it
// is a no-op and returns a nil result, so recalculation can never touch a
// match past the verification stage.
//
// Candidates keep their join order for the greedy quota pass; ranking is by
// score descending with ties broken by ascending matches played in the
// group, which rewards less-frequent players.
func (e *Engine) Allocate(match *volley.Match, candidates []Candidate, groupTotalPlayed int) (*Result, error) {
	if match.State != volley.StateOpen {
		return nil, nil
	}

	for _, c := range candidates {
		if len(c.Player.PreferredPositions) == 0 {
			return nil, fmt.Errorf("%w: player %s", ErrNoPreferredPositions, c.Player.ID)
		}
		if err := e.catalog.ValidatePreferences(c.Player.PreferredPositions); err != nil {
			return nil, fmt.Errorf("player %s: %w", c.Player.ID, err)
		}
	}

	remaining := make(map[string]int, len(match.Quotas))
	for position, quota := range match.Quotas {
		remaining[position] = quota
	}

	type ranked struct {
		assignment volley.Assignment
		played     int
	}
	var starters, substitutes []ranked

	for _, c := range candidates {
		assigned := false
		for _, position := range c.Player.PreferredPositions {
			if remaining[position] <= 0 {
				continue
			}
			weight, err := e.catalog.Weight(position)
			if err != nil {
				return nil, err
			}
			remaining[position]--
			starters = append(starters, ranked{
				assignment: volley.Assignment{
					ParticipationID: c.Participation.ID,
					PlayerID:        c.Player.ID,
					Status:          volley.ParticipationStarter,
					Position:        position,
					Score:           scoring.Score(weight, c.Player.Commitment, c.PlayedInGroup, groupTotalPlayed),
				},
				played: c.PlayedInGroup,
			})
			assigned = true
			break
		}
		if assigned {
			continue
		}
		// No quota left in any preferred position: substitute, scored
		// against the top preference. The scoring position does not imply
		// promotion eligibility.
		weight, err := e.catalog.Weight(c.Player.PreferredPositions[0])
		if err != nil {
			return nil, err
		}
		substitutes = append(substitutes, ranked{
			assignment: volley.Assignment{
				ParticipationID: c.Participation.ID,
				PlayerID:        c.Player.ID,
				Status:          volley.ParticipationSubstitute,
				Score:           scoring.Score(weight, c.Player.Commitment, c.PlayedInGroup, groupTotalPlayed),
			},
			played: c.PlayedInGroup,
		})
	}

	byScore := func(group []ranked) func(i, j int) bool {
		return func(i, j int) bool {
			if group[i].assignment.Score != group[j].assignment.Score {
				return group[i].assignment.Score > group[j].assignment.Score
			}
			return group[i].played < group[j].played
		}
	}
	sort.SliceStable(starters, byScore(starters))
	sort.SliceStable(substitutes, byScore(substitutes))

	result := &Result{}
	for i := range starters {
		rank := i + 1
		starters[i].assignment.StarterRank = &rank
		result.Starters = append(result.Starters, starters[i].assignment)
	}
	for i := range substitutes {
		if match.SubsCapacity > 0 && i >= match.SubsCapacity {
			overflow := substitutes[i].assignment
			overflow.Status = volley.ParticipationPending
			result.Overflow = append(result.Overflow, overflow)
			continue
		}
		rank := i + 1
		substitutes[i].assignment.SubstituteRank = &rank
		result.Substitutes = append(result.Substitutes, substitutes[i].assignment)
	}
	return result, nil
}
