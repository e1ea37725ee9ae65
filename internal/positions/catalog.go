package positions

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPosition is returned when a position name is not in the catalog.
var ErrUnknownPosition = errors.New("unknown position")

// Definition describes one valid position: its scoring weight and the
// default number of starter slots it contributes per team in a formation.
type Definition struct {
	Name string
	// Weight feeds the scoring function. Higher means the position is
	// harder to fill and scores higher for players who prefer it.
	Weight float64
	// DefaultSlots is the per-team slot multiplier used to derive quotas
	// when a match is created without explicit ones.
	DefaultSlots int
}

// Catalog is the static, externally configured set of valid positions.
type Catalog struct {
	defs map[string]Definition
}

// NewCatalog builds a catalog from explicit definitions.
func NewCatalog(defs []Definition) *Catalog {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return &Catalog{defs: m}
}

// Default returns the standard six-player indoor volleyball catalog.
func Default() *Catalog {
	return NewCatalog([]Definition{
		{Name: "setter", Weight: 1.5, DefaultSlots: 1},
		{Name: "outside", Weight: 1.0, DefaultSlots: 2},
		{Name: "middle", Weight: 1.2, DefaultSlots: 2},
		{Name: "opposite", Weight: 1.3, DefaultSlots: 1},
		{Name: "libero", Weight: 1.1, DefaultSlots: 1},
	})
}

// Valid reports whether the position name exists in the catalog.
func (c *Catalog) Valid(name string) bool {
	_, ok := c.defs[name]
	return ok
}

// Weight returns the scoring weight for a position.
func (c *Catalog) Weight(name string) (float64, error) {
	d, ok := c.defs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, name)
	}
	return d.Weight, nil
}

// ValidateQuotas rejects quota maps that reference unknown positions or
// non-positive slot counts.
func (c *Catalog) ValidateQuotas(quotas map[string]int) error {
	if len(quotas) == 0 {
		return errors.New("empty slot quotas")
	}
	for name, count := range quotas {
		if !c.Valid(name) {
			return fmt.Errorf("%w: %q", ErrUnknownPosition, name)
		}
		if count <= 0 {
			return fmt.Errorf("invalid quota for %q: %d", name, count)
		}
	}
	return nil
}

// ValidatePreferences rejects preference lists that are empty, too long, or
// reference unknown positions.
func (c *Catalog) ValidatePreferences(prefs []string) error {
	if len(prefs) == 0 || len(prefs) > 3 {
		return fmt.Errorf("preferred positions must list 1-3 entries, got %d", len(prefs))
	}
	for _, name := range prefs {
		if !c.Valid(name) {
			return fmt.Errorf("%w: %q", ErrUnknownPosition, name)
		}
	}
	return nil
}

// DefaultQuotas derives per-position starter quotas for the given team count
// from the catalog's default slot multipliers.
func (c *Catalog) DefaultQuotas(teamCount int) map[string]int {
	quotas := make(map[string]int, len(c.defs))
	for name, d := range c.defs {
		quotas[name] = d.DefaultSlots * teamCount
	}
	return quotas
}

// Names returns the catalog's position names in stable order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.defs))
	for name := range c.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
