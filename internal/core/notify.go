// ABOUTME: Badge unlock notifications emitted by the engagement service
// ABOUTME: Notifiers are fire-and-forget; the points change has already committed
package core

import (
	"context"
	"time"

	"github.com/harper/growth-tribe/internal/models"
	"github.com/sirupsen/logrus"
)

// BadgeUnlocked is emitted when a credit moves a member into a higher tier
type BadgeUnlocked struct {
	UserID      string      `json:"user_id"`
	Tier        models.Tier `json:"tier"`
	Previous    models.Tier `json:"previous"`
	TotalPoints int64       `json:"total_points"`
	UnlockedAt  time.Time   `json:"unlocked_at"`
}

// Notifier receives badge unlocks
type Notifier interface {
	BadgeUnlocked(ctx context.Context, event BadgeUnlocked)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, event BadgeUnlocked)

// BadgeUnlocked calls f
func (f NotifierFunc) BadgeUnlocked(ctx context.Context, event BadgeUnlocked) {
	f(ctx, event)
}

// LogNotifier writes unlocks to a logger
type LogNotifier struct {
	Log logrus.FieldLogger
}

// BadgeUnlocked logs the event at info level
func (n LogNotifier) BadgeUnlocked(ctx context.Context, event BadgeUnlocked) {
	if n.Log == nil {
		return
	}
	n.Log.WithFields(logrus.Fields{
		"user_id":  event.UserID,
		"tier":     event.Tier.Name,
		"previous": event.Previous.Name,
		"points":   event.TotalPoints,
	}).Info("badge unlocked")
}

// MultiNotifier fans an event out to several notifiers in order
type MultiNotifier []Notifier

// BadgeUnlocked forwards to each non-nil notifier
func (m MultiNotifier) BadgeUnlocked(ctx context.Context, event BadgeUnlocked) {
	for _, n := range m {
		if n != nil {
			n.BadgeUnlocked(ctx, event)
		}
	}
}
