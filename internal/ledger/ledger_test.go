// ABOUTME: Tests for applying point actions
// ABOUTME: Verifies clamping, tier transitions and the self-action exemption

package ledger

import (
	"math"
	"testing"

	"github.com/harper/growth-tribe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioLedger(t *testing.T) *Ledger {
	t.Helper()
	tiers, err := NewTierTable([]models.Tier{
		{Name: "Seedling", MinPoints: 0},
		{Name: "Sprout", MinPoints: 500},
		{Name: "Bloom", MinPoints: 1000},
	})
	require.NoError(t, err)
	return New(tiers)
}

func TestApplyAction_CrossesIntoBloom(t *testing.T) {
	l := scenarioLedger(t)

	res, err := l.ApplyAction(995, models.PointAction{Kind: models.ActionCreatePost, Delta: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1005), res.NewTotal)
	assert.Equal(t, int64(10), res.Applied)
	assert.Equal(t, "Sprout", res.TierBefore.Name)
	assert.Equal(t, "Bloom", res.TierAfter.Name)
	assert.True(t, res.TierChanged)
	assert.True(t, res.Unlocked())
}

func TestApplyAction_ClampsAtZero(t *testing.T) {
	l := scenarioLedger(t)

	res, err := l.ApplyAction(0, models.PointAction{Kind: models.ActionUnlike, Delta: -1})
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.NewTotal)
	assert.Equal(t, int64(0), res.Applied)
	assert.False(t, res.TierChanged)
}

func TestApplyAction_NewTotalIsClampedSum(t *testing.T) {
	l := New(nil)
	totals := []int64{0, 1, 2, 99, 499, 500, 501, 999, 1000, 4999, 5000, 123456}
	deltas := []int64{-10000, -501, -10, -2, -1, 0, 1, 2, 3, 5, 10, 4000}

	for _, total := range totals {
		for _, d := range deltas {
			res, err := l.ApplyAction(total, models.PointAction{Kind: models.ActionShare, Delta: d})
			require.NoError(t, err)

			want := total + d
			if want < 0 {
				want = 0
			}
			assert.Equal(t, want, res.NewTotal, "total=%d delta=%d", total, d)
			assert.Equal(t, res.NewTotal-total, res.Applied)
			assert.Equal(t, res.TierBefore != res.TierAfter, res.TierChanged)
		}
	}
}

func TestApplyAction_SaturatesAtMaxTotal(t *testing.T) {
	l := New(nil)

	res, err := l.ApplyAction(math.MaxInt64-5, models.NewPointAction(models.ActionCreatePost))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), res.NewTotal)
	assert.Equal(t, int64(5), res.Applied)
	assert.Equal(t, "Harmony", res.TierAfter.Name)
	assert.False(t, res.TierChanged)

	res, err = l.ApplyAction(math.MaxInt64, models.NewPointAction(models.ActionLike))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), res.NewTotal)
	assert.Equal(t, int64(0), res.Applied)
}

func TestClampedSum(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		delta int64
		want  int64
	}{
		{"plain", 10, 5, 15},
		{"clamp at zero", 3, -5, 0},
		{"at the bound", math.MaxInt64 - 10, 10, math.MaxInt64},
		{"past the bound", math.MaxInt64 - 9, 10, math.MaxInt64},
		{"debit from max", math.MaxInt64, -2, math.MaxInt64 - 2},
		{"min delta", 0, math.MinInt64, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampedSum(tt.total, tt.delta))
		})
	}
}

func TestApplyAction_NegativeTotalIsInvalidState(t *testing.T) {
	l := New(nil)

	_, err := l.ApplyAction(-1, models.NewPointAction(models.ActionLike))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyAction_DowngradeIsNotAnUnlock(t *testing.T) {
	l := scenarioLedger(t)

	res, err := l.ApplyAction(500, models.NewPointAction(models.ActionUnlike))
	require.NoError(t, err)

	assert.True(t, res.TierChanged)
	assert.False(t, res.Unlocked())
	assert.Equal(t, "Seedling", res.TierAfter.Name)
}

func TestApplyAction_InverseActionsCancel(t *testing.T) {
	l := New(nil)
	start := int64(42)

	total := start
	for _, kind := range []models.ActionKind{models.ActionUnlike, models.ActionLike, models.ActionUnlike, models.ActionLike} {
		res, err := l.ApplyAction(total, models.NewPointAction(kind))
		require.NoError(t, err)
		total = res.NewTotal
	}
	assert.Equal(t, start, total)

	total = start
	for _, kind := range []models.ActionKind{models.ActionAddReaction, models.ActionRetractReaction} {
		res, err := l.ApplyAction(total, models.NewPointAction(kind))
		require.NoError(t, err)
		total = res.NewTotal
	}
	assert.Equal(t, start, total)
}

func TestEngagementDelta_SelfActionExempt(t *testing.T) {
	l := scenarioLedger(t)

	for _, kind := range []models.ActionKind{models.ActionLike, models.ActionUnlike, models.ActionAddReaction, models.ActionRetractReaction} {
		action := EngagementDelta("alice", "alice", models.NewPointAction(kind))
		assert.Equal(t, int64(0), action.Delta, kind)

		res, err := l.ApplyAction(499, action)
		require.NoError(t, err)
		assert.Equal(t, int64(499), res.NewTotal)
		assert.False(t, res.TierChanged)
	}
}

func TestEngagementDelta_OtherActorKeepsDelta(t *testing.T) {
	action := EngagementDelta("bob", "alice", models.NewPointAction(models.ActionLike))
	assert.Equal(t, int64(1), action.Delta)

	action = EngagementDelta("bob", "alice", models.NewPointAction(models.ActionRetractReaction))
	assert.Equal(t, int64(-2), action.Delta)
}

func TestEngagementDelta_ActorCreditedKindsUntouched(t *testing.T) {
	action := EngagementDelta("alice", "alice", models.NewPointAction(models.ActionShare))
	assert.Equal(t, int64(3), action.Delta)
}
