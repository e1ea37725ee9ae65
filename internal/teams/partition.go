package teams

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
)

var (
	// ErrMatchNotClosed means team generation was requested before the
	// roster was closed.
	ErrMatchNotClosed = errors.New("teams can only be generated for a closed match")
	// ErrMatchStarted means regeneration was requested at or after the
	// scheduled start.
	ErrMatchStarted = errors.New("cannot generate teams after scheduled start")
	// ErrNoTeams means the match has a team count below 1.
	ErrNoTeams = errors.New("match team count must be at least 1")
)

// Partitioner splits a starter set into N balanced teams per position.
type Partitioner struct {
	rng *rand.Rand
}

// New creates a partitioner seeded from the current time.
func New() *Partitioner {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a partitioner with an explicit random source.
func NewWithRand(rng *rand.Rand) *Partitioner {
	return &Partitioner{rng: rng}
}

// Partition deals the starters of a closed match into the match's N teams.
// Per position the starter pool is shuffled uniformly, then dealt
// round-robin, floor(quota/N) players per team. A remainder that does not
// divide evenly is intentionally not distributed: composition stays even
// over exact multiples only. The result fully replaces any earlier
// generation.
func (p *Partitioner) Partition(match *volley.Match, starters []*volley.Participation, now time.Time) (*volley.TeamSet, error) {
	if match.State != volley.StateClosed {
		return nil, fmt.Errorf("%w: state is %s", ErrMatchNotClosed, match.State)
	}
	if !now.Before(time.Unix(match.StartTime, 0)) {
		return nil, ErrMatchStarted
	}
	if match.TeamCount < 1 {
		return nil, ErrNoTeams
	}

	pools := make(map[string][]*volley.Participation)
	for _, s := range starters {
		if s.Status != volley.ParticipationStarter || s.Position == "" {
			continue
		}
		pools[s.Position] = append(pools[s.Position], s)
	}

	result := make([]volley.Team, match.TeamCount)
	for i := range result {
		result[i] = volley.Team{Name: fmt.Sprintf("Team %d", i+1)}
	}

	for position, quota := range match.Quotas {
		pool := pools[position]
		p.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})

		perTeam := quota / match.TeamCount
		deal := perTeam * match.TeamCount
		if deal > len(pool) {
			deal = len(pool)
		}
		for i := 0; i < deal; i++ {
			team := i % match.TeamCount
			result[team].Slots = append(result[team].Slots, volley.TeamSlot{
				PlayerID: pool[i].PlayerID,
				Position: position,
			})
		}
	}

	return &volley.TeamSet{
		MatchID:     match.ID,
		GeneratedAt: now.Unix(),
		Teams:       result,
	}, nil
}
