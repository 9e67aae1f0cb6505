// ABOUTME: Account represents a member's cumulative growth points
// ABOUTME: Tier is never stored; it is derived from TotalPoints by the ledger
package models

import "time"

// Account is the points account created once per user at first sign-in
type Account struct {
	UserID      string    `json:"user_id" yaml:"user_id"`
	Username    string    `json:"username" yaml:"username"`
	TotalPoints int64     `json:"total_points" yaml:"total_points"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Tier is a named badge unlocked once TotalPoints reaches MinPoints
type Tier struct {
	Name      string `json:"name" yaml:"name"`
	MinPoints int64  `json:"min_points" yaml:"min_points"`
}

// AccountChange is published to subscribers after a committed points update
type AccountChange struct {
	UserID      string    `json:"user_id"`
	TotalPoints int64     `json:"total_points"`
	Delta       int64     `json:"delta"`
	ChangedAt   time.Time `json:"changed_at"`
}
