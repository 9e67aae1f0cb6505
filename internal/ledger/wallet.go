// ABOUTME: Wallet view of a points balance
// ABOUTME: One hundred points are worth one peso
package ledger

import "fmt"

// PointsPerPeso is the redemption rate shown in the wallet
const PointsPerPeso = 100

// Wallet is the balance summary shown to a member
type Wallet struct {
	Points             int64  `json:"points"`
	PesoValue          string `json:"peso_value"`
	ProgressToNextPeso int64  `json:"progress_to_next_peso"`
}

// NewWallet summarizes points; negative totals are shown as zero
func NewWallet(points int64) Wallet {
	if points < 0 {
		points = 0
	}
	return Wallet{
		Points:             points,
		PesoValue:          fmt.Sprintf("%d.%02d", points/PointsPerPeso, points%PointsPerPeso),
		ProgressToNextPeso: points % PointsPerPeso,
	}
}
