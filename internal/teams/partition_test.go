package teams_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/teams"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starter(id, position string) *volley.Participation {
	return &volley.Participation{
		ID:       "part-" + id,
		PlayerID: id,
		Status:   volley.ParticipationStarter,
		Position: position,
	}
}

func closedMatch(quotas map[string]int, teamCount int) *volley.Match {
	return &volley.Match{
		ID:        "match-1",
		State:     volley.StateClosed,
		StartTime: time.Now().Add(2 * time.Hour).Unix(),
		Quotas:    quotas,
		TeamCount: teamCount,
	}
}

func TestPartitionDealsRoundRobin(t *testing.T) {
	p := teams.NewWithRand(rand.New(rand.NewSource(42)))

	match := closedMatch(map[string]int{"setter": 2, "outside": 4}, 2)
	starters := []*volley.Participation{
		starter("s1", "setter"), starter("s2", "setter"),
		starter("o1", "outside"), starter("o2", "outside"),
		starter("o3", "outside"), starter("o4", "outside"),
	}

	set, err := p.Partition(match, starters, time.Now())
	require.NoError(t, err)
	require.Len(t, set.Teams, 2)
	assert.Equal(t, "match-1", set.MatchID)

	for _, team := range set.Teams {
		counts := make(map[string]int)
		for _, slot := range team.Slots {
			counts[slot.Position]++
		}
		assert.Equal(t, 1, counts["setter"], "team %s setters", team.Name)
		assert.Equal(t, 2, counts["outside"], "team %s outsides", team.Name)
	}

	// Every starter lands in exactly one team.
	seen := make(map[string]int)
	for _, team := range set.Teams {
		for _, slot := range team.Slots {
			seen[slot.PlayerID]++
		}
	}
	require.Len(t, seen, 6)
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %s assigned %d times", id, n)
	}
}

func TestPartitionTruncatesUnevenQuotas(t *testing.T) {
	p := teams.NewWithRand(rand.New(rand.NewSource(7)))

	// 2 setters over 4 teams truncates to 0 per team.
	match := closedMatch(map[string]int{"setter": 2}, 4)
	starters := []*volley.Participation{
		starter("s1", "setter"), starter("s2", "setter"),
	}

	set, err := p.Partition(match, starters, time.Now())
	require.NoError(t, err)
	require.Len(t, set.Teams, 4)
	for _, team := range set.Teams {
		assert.Empty(t, team.Slots)
	}
}

func TestPartitionIgnoresNonStarters(t *testing.T) {
	p := teams.NewWithRand(rand.New(rand.NewSource(1)))

	match := closedMatch(map[string]int{"setter": 2}, 2)
	sub := &volley.Participation{ID: "part-x", PlayerID: "x", Status: volley.ParticipationSubstitute}
	starters := []*volley.Participation{
		starter("s1", "setter"), starter("s2", "setter"), sub,
	}

	set, err := p.Partition(match, starters, time.Now())
	require.NoError(t, err)
	for _, team := range set.Teams {
		for _, slot := range team.Slots {
			assert.NotEqual(t, "x", slot.PlayerID)
		}
	}
}

func TestPartitionRequiresClosedState(t *testing.T) {
	p := teams.New()

	match := closedMatch(map[string]int{"setter": 2}, 2)
	match.State = volley.StateOpen

	_, err := p.Partition(match, nil, time.Now())
	assert.ErrorIs(t, err, teams.ErrMatchNotClosed)
}

func TestPartitionRejectsAfterStart(t *testing.T) {
	p := teams.New()

	match := closedMatch(map[string]int{"setter": 2}, 2)
	match.StartTime = time.Now().Add(-time.Minute).Unix()

	_, err := p.Partition(match, nil, time.Now())
	assert.ErrorIs(t, err, teams.ErrMatchStarted)
}
