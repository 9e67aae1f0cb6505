// ABOUTME: Read-only views over an account: wallet, badge board, feed and history
// ABOUTME: Tier placement always goes through the ledger's tier table
package core

import (
	"context"
	"fmt"

	"github.com/harper/growth-tribe/internal/ledger"
	"github.com/harper/growth-tribe/internal/models"
)

// BadgeStatus is one entry of the badge catalogue
type BadgeStatus struct {
	Tier     models.Tier `json:"tier"`
	Unlocked bool        `json:"unlocked"`
	Current  bool        `json:"current"`
}

// BadgeBoard is a member's badge catalogue and progress
type BadgeBoard struct {
	Points   int64         `json:"points"`
	Current  models.Tier   `json:"current"`
	Next     *models.Tier  `json:"next,omitempty"`
	Progress float64       `json:"progress"`
	Badges   []BadgeStatus `json:"badges"`
}

// NewBadgeBoard places points on tiers
func NewBadgeBoard(tiers *ledger.TierTable, points int64) BadgeBoard {
	current := tiers.TierFor(points)
	board := BadgeBoard{
		Points:   points,
		Current:  current,
		Progress: tiers.Progress(points),
	}
	if next, ok := tiers.Next(points); ok {
		board.Next = &next
	}
	for _, t := range tiers.Tiers() {
		board.Badges = append(board.Badges, BadgeStatus{
			Tier:     t,
			Unlocked: points >= t.MinPoints,
			Current:  t == current,
		})
	}
	return board
}

// Badges returns the badge board for userID
func (e *Engagement) Badges(ctx context.Context, userID string) (BadgeBoard, error) {
	account, err := e.accounts.ReadAccount(ctx, userID)
	if err != nil {
		return BadgeBoard{}, fmt.Errorf("failed to read account: %w", err)
	}
	return NewBadgeBoard(e.ledger.Tiers(), account.TotalPoints), nil
}

// Wallet returns the wallet view for userID
func (e *Engagement) Wallet(ctx context.Context, userID string) (ledger.Wallet, error) {
	account, err := e.accounts.ReadAccount(ctx, userID)
	if err != nil {
		return ledger.Wallet{}, fmt.Errorf("failed to read account: %w", err)
	}
	return ledger.NewWallet(account.TotalPoints), nil
}

// Feed returns the newest posts
func (e *Engagement) Feed(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := e.content.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Comments returns a post's comments, oldest first
func (e *Engagement) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := e.content.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// History returns userID's points log, newest first
func (e *Engagement) History(ctx context.Context, userID string, limit int) ([]models.PointsLogEntry, error) {
	entries, err := e.pointsLog.ListLog(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list points log: %w", err)
	}
	return entries, nil
}
