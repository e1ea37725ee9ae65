package allocation_test

import (
	"testing"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/allocation"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate(id string, commitment float64, played int, prefs ...string) allocation.Candidate {
	return allocation.Candidate{
		Participation: &volley.Participation{ID: "part-" + id, PlayerID: id},
		Player: &volley.Player{
			ID:                 id,
			Commitment:         commitment,
			PreferredPositions: prefs,
		},
		PlayedInGroup: played,
	}
}

func openMatch(quotas map[string]int) *volley.Match {
	return &volley.Match{
		ID:     "match-1",
		State:  volley.StateOpen,
		Quotas: quotas,
	}
}

func TestAllocateSplitsStartersAndSubstitutes(t *testing.T) {
	engine := allocation.New(positions.Default())

	// Two setter hopefuls for a single setter slot, one outside hitter.
	match := openMatch(map[string]int{"setter": 1, "outside": 2})
	candidates := []allocation.Candidate{
		newCandidate("ana", 3, 0, "setter"),
		newCandidate("bea", 1, 0, "setter"),
		newCandidate("caro", 2, 0, "outside"),
	}

	result, err := engine.Allocate(match, candidates, 0)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Starters, 2)
	require.Len(t, result.Substitutes, 1)
	assert.Empty(t, result.Overflow)

	byPlayer := make(map[string]volley.Assignment)
	for _, a := range result.Assignments() {
		byPlayer[a.PlayerID] = a
	}

	assert.Equal(t, volley.ParticipationStarter, byPlayer["ana"].Status)
	assert.Equal(t, "setter", byPlayer["ana"].Position)
	assert.Equal(t, volley.ParticipationStarter, byPlayer["caro"].Status)
	assert.Equal(t, "outside", byPlayer["caro"].Position)
	assert.Equal(t, volley.ParticipationSubstitute, byPlayer["bea"].Status)
	assert.Empty(t, byPlayer["bea"].Position)
	require.NotNil(t, byPlayer["bea"].SubstituteRank)
	assert.Equal(t, 1, *byPlayer["bea"].SubstituteRank)
}

func TestAllocateAssignsDenseRanks(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"outside": 2, "middle": 2})
	candidates := []allocation.Candidate{
		newCandidate("p1", 1, 0, "outside"),
		newCandidate("p2", 5, 0, "outside"),
		newCandidate("p3", 3, 0, "middle"),
		newCandidate("p4", 2, 0, "middle"),
		newCandidate("p5", 4, 0, "outside", "middle"),
		newCandidate("p6", 0, 0, "outside"),
	}

	result, err := engine.Allocate(match, candidates, 0)
	require.NoError(t, err)

	require.Len(t, result.Starters, 4)
	for i, a := range result.Starters {
		require.NotNil(t, a.StarterRank)
		assert.Equal(t, i+1, *a.StarterRank)
		assert.Nil(t, a.SubstituteRank)
	}
	// Ranked by score descending.
	for i := 1; i < len(result.Starters); i++ {
		assert.GreaterOrEqual(t, result.Starters[i-1].Score, result.Starters[i].Score)
	}

	require.Len(t, result.Substitutes, 2)
	for i, a := range result.Substitutes {
		require.NotNil(t, a.SubstituteRank)
		assert.Equal(t, i+1, *a.SubstituteRank)
	}
}

func TestAllocateRespectsQuotas(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"setter": 1, "outside": 2, "middle": 2})
	var candidates []allocation.Candidate
	prefs := [][]string{
		{"setter", "outside"}, {"setter"}, {"outside"}, {"outside", "middle"},
		{"middle"}, {"middle"}, {"setter", "middle"}, {"outside"},
	}
	for i, p := range prefs {
		candidates = append(candidates, newCandidate(string(rune('a'+i)), float64(i), i, p...))
	}

	result, err := engine.Allocate(match, candidates, 10)
	require.NoError(t, err)

	filled := make(map[string]int)
	for _, a := range result.Starters {
		filled[a.Position]++
	}
	for position, count := range filled {
		assert.LessOrEqual(t, count, match.Quotas[position], "position %s over quota", position)
	}
}

func TestAllocateTieBreaksByPlayedAscending(t *testing.T) {
	engine := allocation.New(positions.Default())

	// totalPlayed of zero pins the rotation factor, so equal commitment means
	// equal score and the played counter decides the order.
	match := openMatch(map[string]int{"outside": 2})
	candidates := []allocation.Candidate{
		newCandidate("veteran", 2, 9, "outside"),
		newCandidate("rookie", 2, 1, "outside"),
	}

	result, err := engine.Allocate(match, candidates, 0)
	require.NoError(t, err)

	require.Len(t, result.Starters, 2)
	assert.Equal(t, "rookie", result.Starters[0].PlayerID)
	assert.Equal(t, "veteran", result.Starters[1].PlayerID)
}

func TestAllocateIsIdempotent(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"setter": 1, "outside": 2})
	candidates := []allocation.Candidate{
		newCandidate("ana", 3, 2, "setter", "outside"),
		newCandidate("bea", 1, 4, "setter"),
		newCandidate("caro", 2, 0, "outside"),
		newCandidate("dana", 2, 6, "outside"),
	}

	first, err := engine.Allocate(match, candidates, 12)
	require.NoError(t, err)
	second, err := engine.Allocate(match, candidates, 12)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAllocateSubstituteOverflowStaysPending(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"setter": 1})
	match.SubsCapacity = 1
	candidates := []allocation.Candidate{
		newCandidate("ana", 4, 0, "setter"),
		newCandidate("bea", 3, 0, "setter"),
		newCandidate("caro", 2, 0, "setter"),
		newCandidate("dana", 1, 0, "setter"),
	}

	result, err := engine.Allocate(match, candidates, 0)
	require.NoError(t, err)

	require.Len(t, result.Starters, 1)
	require.Len(t, result.Substitutes, 1)
	require.Len(t, result.Overflow, 2)
	assert.Equal(t, "bea", result.Substitutes[0].PlayerID)
	for _, a := range result.Overflow {
		assert.Equal(t, volley.ParticipationPending, a.Status)
		assert.Nil(t, a.SubstituteRank)
	}
}

func TestAllocateRejectsEmptyPreferences(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"setter": 1})
	candidates := []allocation.Candidate{
		newCandidate("ana", 1, 0),
	}

	_, err := engine.Allocate(match, candidates, 0)
	assert.ErrorIs(t, err, allocation.ErrNoPreferredPositions)
}

func TestAllocateNoOpPastOpenState(t *testing.T) {
	engine := allocation.New(positions.Default())

	match := openMatch(map[string]int{"setter": 1})
	match.State = volley.StateVerifying

	result, err := engine.Allocate(match, []allocation.Candidate{newCandidate("ana", 1, 0, "setter")}, 0)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestAllocateEmptyPool(t *testing.T) {
	engine := allocation.New(positions.Default())

	result, err := engine.Allocate(openMatch(map[string]int{"setter": 1}), nil, 0)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Starters)
	assert.Empty(t, result.Substitutes)
}
