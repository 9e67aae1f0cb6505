// ABOUTME: Points ledger: pure mapping from (total, action) to new total and tier change
// ABOUTME: Holds no state beyond its tier table and performs no I/O
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/harper/growth-tribe/internal/models"
)

// ErrInvalidState is returned when a caller passes a negative current total
var ErrInvalidState = errors.New("invalid ledger state")

// Result is the outcome of applying one action to a total
type Result struct {
	NewTotal    int64       `json:"new_total"`
	Applied     int64       `json:"applied"`
	TierBefore  models.Tier `json:"tier_before"`
	TierAfter   models.Tier `json:"tier_after"`
	TierChanged bool        `json:"tier_changed"`
}

// Unlocked reports whether the change moved the member up to a new badge
func (r Result) Unlocked() bool {
	return r.TierChanged && r.TierAfter.MinPoints > r.TierBefore.MinPoints
}

// Ledger applies point actions against a tier table
type Ledger struct {
	tiers *TierTable
}

// New creates a ledger over tiers, falling back to the default table when nil
func New(tiers *TierTable) *Ledger {
	if tiers == nil {
		tiers = DefaultTierTable()
	}
	return &Ledger{tiers: tiers}
}

// Tiers returns the ledger's tier table
func (l *Ledger) Tiers() *TierTable {
	return l.tiers
}

// TierFor is a shortcut for l.Tiers().TierFor
func (l *Ledger) TierFor(points int64) models.Tier {
	return l.tiers.TierFor(points)
}

// ApplyAction computes newTotal = max(0, currentTotal + delta) and the tier
// transition it causes. It never touches storage.
func (l *Ledger) ApplyAction(currentTotal int64, action models.PointAction) (Result, error) {
	if currentTotal < 0 {
		return Result{}, fmt.Errorf("%w: current total %d is negative", ErrInvalidState, currentTotal)
	}

	newTotal := ClampedSum(currentTotal, action.Delta)
	before := l.tiers.TierFor(currentTotal)
	after := l.tiers.TierFor(newTotal)

	return Result{
		NewTotal:    newTotal,
		Applied:     newTotal - currentTotal,
		TierBefore:  before,
		TierAfter:   after,
		TierChanged: before != after,
	}, nil
}

// ClampedSum returns max(0, total + delta) for a non-negative total,
// saturating at math.MaxInt64 instead of wrapping
func ClampedSum(total, delta int64) int64 {
	if delta > 0 && total > math.MaxInt64-delta {
		return math.MaxInt64
	}
	sum := total + delta
	if sum < 0 {
		return 0
	}
	return sum
}

// EngagementDelta applies the self-action exemption: an author-credited action
// by the content's own author transfers nothing. Actor-credited kinds pass
// through unchanged.
func EngagementDelta(actorID, authorID string, action models.PointAction) models.PointAction {
	if action.Kind.CreditsAuthor() && actorID == authorID {
		action.Delta = 0
	}
	return action
}
