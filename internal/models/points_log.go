// ABOUTME: PointsLogEntry records every credit applied to an account
// ABOUTME: Applied may differ from Delta when the total was clamped at zero
package models

import "time"

// LogWelcomeBonus is the log kind for the bonus granted at account creation.
// It is never applied through the ledger.
const LogWelcomeBonus ActionKind = "welcome_bonus"

// PointsLogEntry is one row of an account's points history
type PointsLogEntry struct {
	EntryID     string     `json:"entry_id" yaml:"entry_id"`
	UserID      string     `json:"user_id" yaml:"user_id"`
	Kind        ActionKind `json:"kind" yaml:"kind"`
	Delta       int64      `json:"delta" yaml:"delta"`
	Applied     int64      `json:"applied" yaml:"applied"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	ReferenceID string     `json:"reference_id,omitempty" yaml:"reference_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}
