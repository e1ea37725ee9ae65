package positions_test

import (
	"testing"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := positions.Default()

	assert.True(t, catalog.Valid("setter"))
	assert.True(t, catalog.Valid("libero"))
	assert.False(t, catalog.Valid("goalkeeper"))

	weight, err := catalog.Weight("setter")
	require.NoError(t, err)
	assert.Equal(t, 1.5, weight)

	_, err = catalog.Weight("goalkeeper")
	assert.ErrorIs(t, err, positions.ErrUnknownPosition)

	assert.Equal(t, []string{"libero", "middle", "opposite", "outside", "setter"}, catalog.Names())
}

func TestValidateQuotas(t *testing.T) {
	catalog := positions.Default()

	assert.NoError(t, catalog.ValidateQuotas(map[string]int{"setter": 1, "outside": 2}))
	assert.Error(t, catalog.ValidateQuotas(nil))
	assert.ErrorIs(t, catalog.ValidateQuotas(map[string]int{"goalkeeper": 1}), positions.ErrUnknownPosition)
	assert.Error(t, catalog.ValidateQuotas(map[string]int{"setter": 0}))
	assert.Error(t, catalog.ValidateQuotas(map[string]int{"setter": -2}))
}

func TestValidatePreferences(t *testing.T) {
	catalog := positions.Default()

	assert.NoError(t, catalog.ValidatePreferences([]string{"setter"}))
	assert.NoError(t, catalog.ValidatePreferences([]string{"setter", "outside", "middle"}))
	assert.Error(t, catalog.ValidatePreferences(nil))
	assert.Error(t, catalog.ValidatePreferences([]string{"setter", "outside", "middle", "libero"}))
	assert.ErrorIs(t, catalog.ValidatePreferences([]string{"goalkeeper"}), positions.ErrUnknownPosition)
}

func TestDefaultQuotas(t *testing.T) {
	catalog := positions.Default()

	quotas := catalog.DefaultQuotas(2)
	assert.Equal(t, map[string]int{
		"setter":   2,
		"outside":  4,
		"middle":   4,
		"opposite": 2,
		"libero":   2,
	}, quotas)
}
