// ABOUTME: Tests for the wallet view
// ABOUTME: Verifies peso formatting and progress

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWallet(t *testing.T) {
	tests := []struct {
		points   int64
		peso     string
		progress int64
	}{
		{0, "0.00", 0},
		{5, "0.05", 5},
		{100, "1.00", 0},
		{1234, "12.34", 34},
		{-7, "0.00", 0},
	}

	for _, tt := range tests {
		w := NewWallet(tt.points)
		assert.Equal(t, tt.peso, w.PesoValue, "points=%d", tt.points)
		assert.Equal(t, tt.progress, w.ProgressToNextPeso, "points=%d", tt.points)
	}
}
