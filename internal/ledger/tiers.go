// ABOUTME: Badge tier thresholds and the single tierFor lookup
// ABOUTME: Tables are validated once at construction so lookups cannot fail
package ledger

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/harper/growth-tribe/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTierTable is returned for tables that break the ordering invariant
var ErrInvalidTierTable = errors.New("invalid tier table")

// DefaultTiers is the badge ladder members climb
var DefaultTiers = []models.Tier{
	{Name: "Seedling", MinPoints: 0},
	{Name: "Sprout", MinPoints: 500},
	{Name: "Bloom", MinPoints: 1000},
	{Name: "Harmony", MinPoints: 5000},
}

// TierTable is an ordered, strictly increasing list of thresholds whose first
// entry starts at zero, so every non-negative total maps to exactly one tier
type TierTable struct {
	tiers []models.Tier
}

// NewTierTable validates tiers and returns a table over a private copy
func NewTierTable(tiers []models.Tier) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidTierTable)
	}
	if tiers[0].MinPoints != 0 {
		return nil, fmt.Errorf("%w: first tier %q starts at %d, want 0",
			ErrInvalidTierTable, tiers[0].Name, tiers[0].MinPoints)
	}
	for i, t := range tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", ErrInvalidTierTable, i)
		}
		if i > 0 && t.MinPoints <= tiers[i-1].MinPoints {
			return nil, fmt.Errorf("%w: %q (%d) does not exceed %q (%d)",
				ErrInvalidTierTable, t.Name, t.MinPoints, tiers[i-1].Name, tiers[i-1].MinPoints)
		}
	}

	cp := make([]models.Tier, len(tiers))
	copy(cp, tiers)
	return &TierTable{tiers: cp}, nil
}

// MustTierTable is NewTierTable for package-level tables known to be valid
func MustTierTable(tiers []models.Tier) *TierTable {
	t, err := NewTierTable(tiers)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTierTable returns a table over DefaultTiers
func DefaultTierTable() *TierTable {
	return MustTierTable(DefaultTiers)
}

// Tiers returns a copy of the thresholds in ascending order
func (t *TierTable) Tiers() []models.Tier {
	cp := make([]models.Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

// TierFor returns the tier with the largest MinPoints not exceeding points.
// Negative totals map to the first tier.
func (t *TierTable) TierFor(points int64) models.Tier {
	return t.tiers[t.index(points)]
}

// Next returns the tier after the one points falls in, and false at the top
func (t *TierTable) Next(points int64) (models.Tier, bool) {
	i := t.index(points) + 1
	if i >= len(t.tiers) {
		return models.Tier{}, false
	}
	return t.tiers[i], true
}

// Progress returns how far points has climbed through its current band, as a
// percentage in [0, 100]. The top tier always reports 100.
func (t *TierTable) Progress(points int64) float64 {
	cur := t.TierFor(points)
	next, ok := t.Next(points)
	if !ok {
		return 100
	}
	if points < cur.MinPoints {
		return 0
	}
	return float64(points-cur.MinPoints) / float64(next.MinPoints-cur.MinPoints) * 100
}

// index finds the position of the tier points falls in
func (t *TierTable) index(points int64) int {
	// first tier strictly above points, minus one
	i := sort.Search(len(t.tiers), func(i int) bool {
		return t.tiers[i].MinPoints > points
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// tierFile is the on-disk YAML shape of a tier table
type tierFile struct {
	Tiers []models.Tier `yaml:"tiers"`
}

// LoadTierTable reads a YAML tier file:
//
//	tiers:
//	  - name: Seedling
//	    min_points: 0
func LoadTierTable(path string) (*TierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tier file: %w", err)
	}

	var f tierFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tier file: %w", err)
	}

	return NewTierTable(f.Tiers)
}
