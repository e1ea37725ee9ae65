package allocation_test

import (
	"testing"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/allocation"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubstitute(id string, rank int, prefs ...string) allocation.Candidate {
	r := rank
	return allocation.Candidate{
		Participation: &volley.Participation{
			ID:             "part-" + id,
			PlayerID:       id,
			Status:         volley.ParticipationSubstitute,
			SubstituteRank: &r,
		},
		Player: &volley.Player{
			ID:                 id,
			PreferredPositions: prefs,
		},
	}
}

func TestReplacePromotesBestRankedEligible(t *testing.T) {
	engine := allocation.New(positions.Default())

	substitutes := []allocation.Candidate{
		newSubstitute("bea", 2, "outside", "middle"),
		newSubstitute("ana", 1, "setter"),
	}

	promotion, err := engine.Replace(substitutes, "outside", false)
	require.NoError(t, err)
	require.NotNil(t, promotion)

	// ana is ranked best but does not list outside; bea gets the slot.
	assert.Equal(t, "bea", promotion.PlayerID)
	assert.Equal(t, "part-bea", promotion.ParticipationID)
	assert.Equal(t, "outside", promotion.Position)
	assert.False(t, promotion.DeferPayment)
}

func TestReplaceHonorsRankOrder(t *testing.T) {
	engine := allocation.New(positions.Default())

	substitutes := []allocation.Candidate{
		newSubstitute("second", 2, "middle"),
		newSubstitute("first", 1, "middle"),
	}

	promotion, err := engine.Replace(substitutes, "middle", false)
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.Equal(t, "first", promotion.PlayerID)
}

func TestReplaceDefersPaymentPastDeadline(t *testing.T) {
	engine := allocation.New(positions.Default())

	substitutes := []allocation.Candidate{
		newSubstitute("ana", 1, "setter"),
	}

	promotion, err := engine.Replace(substitutes, "setter", true)
	require.NoError(t, err)
	require.NotNil(t, promotion)
	assert.True(t, promotion.DeferPayment)
}

func TestReplaceNoEligibleSubstitute(t *testing.T) {
	engine := allocation.New(positions.Default())

	substitutes := []allocation.Candidate{
		newSubstitute("ana", 1, "setter"),
		newSubstitute("bea", 2, "middle"),
	}

	promotion, err := engine.Replace(substitutes, "libero", false)
	require.NoError(t, err)
	assert.Nil(t, promotion)
}

func TestReplaceEmptyPool(t *testing.T) {
	engine := allocation.New(positions.Default())

	promotion, err := engine.Replace(nil, "setter", false)
	require.NoError(t, err)
	assert.Nil(t, promotion)
}

func TestReplaceRejectsUnknownPosition(t *testing.T) {
	engine := allocation.New(positions.Default())

	_, err := engine.Replace(nil, "goalkeeper", false)
	assert.Error(t, err)
}
