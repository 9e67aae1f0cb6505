// ABOUTME: Persistence contracts for accounts, community content and the points log
// ABOUTME: The sqlite subpackage is the reference implementation of every interface here
package storage

import (
	"context"
	"errors"

	"github.com/harper/growth-tribe/internal/models"
)

var (
	// ErrNotFound is returned when an account, post or comment does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating an account that exists
	ErrAlreadyExists = errors.New("already exists")
)

// AccountStore persists points accounts
type AccountStore interface {
	// ReadAccount returns ErrNotFound when the user has no account yet
	ReadAccount(ctx context.Context, userID string) (*models.Account, error)
	// CreateAccount creates the account or returns ErrAlreadyExists
	CreateAccount(ctx context.Context, userID, username string, initialPoints int64) (*models.Account, error)
	// IncrementPoints atomically adds delta, clamps the total at zero and
	// returns the committed totals before and after the update
	IncrementPoints(ctx context.Context, userID string, delta int64) (before, after int64, err error)
	// ListAccounts returns every account ordered by user id
	ListAccounts(ctx context.Context) ([]models.Account, error)
	// Subscribe delivers committed changes for userID until cancel is called
	Subscribe(userID string) (<-chan models.AccountChange, func())
}

// LikeChange reports the like state of a post after a toggle
type LikeChange struct {
	Liked   bool
	Changed bool
}

// ReactionChange reports a member's reaction on a target before and after
// a toggle; an empty string means no reaction
type ReactionChange struct {
	Previous string
	Current  string
}

// ContentStore persists posts, comments, likes and reactions
type ContentStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context, limit int) ([]models.Post, error)

	AddComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)

	// ToggleLike adds userID to the post's like set, or removes it if present
	ToggleLike(ctx context.Context, postID, userID string) (LikeChange, error)
	// ToggleReaction sets emoji on target, replacing a different emoji or
	// removing the reaction when emoji is already the current one
	ToggleReaction(ctx context.Context, userID string, target models.Target, emoji string) (ReactionChange, error)
	// CountReactions tallies reactions on target by emoji
	CountReactions(ctx context.Context, target models.Target) (map[string]int, error)
}

// PointsLog records every credit applied to an account
type PointsLog interface {
	AppendLog(ctx context.Context, entry *models.PointsLogEntry) error
	ListLog(ctx context.Context, userID string, limit int) ([]models.PointsLogEntry, error)
}

// Store bundles every contract; sqlite.Storage satisfies it
type Store interface {
	AccountStore
	ContentStore
	PointsLog
	Close() error
}
