// ABOUTME: Tests for tier tables
// ABOUTME: Verifies placement, progress and YAML loading

package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/growth-tribe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTierTable_Validation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []models.Tier
	}{
		{"empty", nil},
		{"first tier not zero", []models.Tier{{Name: "A", MinPoints: 10}}},
		{"equal thresholds", []models.Tier{{Name: "A", MinPoints: 0}, {Name: "B", MinPoints: 0}}},
		{"decreasing", []models.Tier{{Name: "A", MinPoints: 0}, {Name: "B", MinPoints: 100}, {Name: "C", MinPoints: 50}}},
		{"unnamed", []models.Tier{{Name: "", MinPoints: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTierTable(tt.tiers)
			assert.ErrorIs(t, err, ErrInvalidTierTable)
		})
	}
}

func TestTierFor_LargestThresholdNotExceeding(t *testing.T) {
	table := DefaultTierTable()

	cases := map[int64]string{
		0:      "Seedling",
		1:      "Seedling",
		499:    "Seedling",
		500:    "Sprout",
		999:    "Sprout",
		1000:   "Bloom",
		4999:   "Bloom",
		5000:   "Harmony",
		999999: "Harmony",
	}
	for points, want := range cases {
		assert.Equal(t, want, table.TierFor(points).Name, "points=%d", points)
	}
}

func TestTierFor_MatchesLinearScan(t *testing.T) {
	table := DefaultTierTable()
	tiers := table.Tiers()

	for n := int64(0); n <= 6000; n += 7 {
		var want models.Tier
		for _, tier := range tiers {
			if tier.MinPoints <= n {
				want = tier
			}
		}
		require.Equal(t, want, table.TierFor(n), "n=%d", n)
	}
}

func TestTierFor_ZeroIsLowestTier(t *testing.T) {
	table := MustTierTable([]models.Tier{{Name: "Only", MinPoints: 0}})
	assert.Equal(t, "Only", table.TierFor(0).Name)
	assert.Equal(t, "Only", table.TierFor(1<<40).Name)
}

func TestNextAndProgress(t *testing.T) {
	table := DefaultTierTable()

	next, ok := table.Next(750)
	require.True(t, ok)
	assert.Equal(t, "Bloom", next.Name)
	assert.InDelta(t, 50.0, table.Progress(750), 0.001)

	assert.InDelta(t, 0.0, table.Progress(0), 0.001)

	_, ok = table.Next(5000)
	assert.False(t, ok)
	assert.Equal(t, 100.0, table.Progress(7000))
}

func TestTiers_ReturnsCopy(t *testing.T) {
	table := DefaultTierTable()
	tiers := table.Tiers()
	tiers[0].Name = "Mutated"

	assert.Equal(t, "Seedling", table.TierFor(0).Name)
}

func TestLoadTierTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	content := `tiers:
  - name: Seedling
    min_points: 0
  - name: Sprout
    min_points: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTierTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Sprout", table.TierFor(250).Name)
}

func TestLoadTierTable_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers:\n  - name: Late\n    min_points: 5\n"), 0644))

	_, err := LoadTierTable(path)
	assert.ErrorIs(t, err, ErrInvalidTierTable)

	_, err = LoadTierTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
