// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Implements the storage contracts and publishes committed account changes
package sqlite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/harper/growth-tribe/internal/storage"
	"github.com/sirupsen/logrus"
)

var _ storage.Store = (*Storage)(nil)

// Storage manages all persistent data for the tribe using SQLite
type Storage struct {
	db       *DB
	accounts *AccountStore
	log      *PointsLogStore
	content  *ContentStore
	broker   *Broker
	logger   *logrus.Entry
	mu       sync.Mutex // orders increments so subscribers see commit order
}

// NewStorage initializes storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		accounts: NewAccountStore(db),
		log:      NewPointsLogStore(db),
		content:  NewContentStore(db),
		broker:   NewBroker(),
		logger:   logging.Component(nil, "storage"),
	}
}

// SetLogger sets the logger used for storage diagnostics
func (s *Storage) SetLogger(log logrus.FieldLogger) {
	s.logger = logging.Component(log, "storage")
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// --- Account operations ---

// ReadAccount loads an account; storage.ErrNotFound if missing
func (s *Storage) ReadAccount(ctx context.Context, userID string) (*models.Account, error) {
	return s.accounts.Get(ctx, userID)
}

// CreateAccount creates an account with initialPoints
func (s *Storage) CreateAccount(ctx context.Context, userID, username string, initialPoints int64) (*models.Account, error) {
	return s.accounts.Create(ctx, userID, username, initialPoints)
}

// IncrementPoints atomically applies delta (clamped at zero) and notifies
// subscribers once the update has committed
func (s *Storage) IncrementPoints(ctx context.Context, userID string, delta int64) (before, after int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, after, err = s.accounts.Increment(ctx, userID, delta)
	if err != nil {
		return 0, 0, err
	}

	change := models.AccountChange{
		UserID:      userID,
		TotalPoints: after,
		Delta:       after - before,
		ChangedAt:   time.Now().UTC(),
	}
	if dropped := s.broker.Publish(change); dropped > 0 {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"dropped": dropped,
		}).Warn("subscriber buffer full, change dropped")
	}
	return before, after, nil
}

// ListAccounts returns every account
func (s *Storage) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

// RestoreAccount overwrites an account from a snapshot and notifies subscribers
func (s *Storage) RestoreAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before int64
	if existing, err := s.accounts.Get(ctx, account.UserID); err == nil {
		before = existing.TotalPoints
	}
	if err := s.accounts.Restore(ctx, account); err != nil {
		return err
	}
	s.broker.Publish(models.AccountChange{
		UserID:      account.UserID,
		TotalPoints: account.TotalPoints,
		Delta:       account.TotalPoints - before,
		ChangedAt:   time.Now().UTC(),
	})
	return nil
}

// Subscribe delivers committed changes for userID until cancel is called
func (s *Storage) Subscribe(userID string) (<-chan models.AccountChange, func()) {
	return s.broker.Subscribe(userID)
}

// --- Content operations ---

// CreatePost saves a post
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) error {
	return s.content.CreatePost(ctx, post)
}

// GetPost loads a post with its engagement
func (s *Storage) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.content.GetPost(ctx, postID)
}

// ListPosts returns the newest posts
func (s *Storage) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.content.ListPosts(ctx, limit)
}

// AddComment saves a comment
func (s *Storage) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.content.AddComment(ctx, comment)
}

// GetComment loads a comment
func (s *Storage) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.content.GetComment(ctx, commentID)
}

// ListComments returns a post's comments
func (s *Storage) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.content.ListComments(ctx, postID)
}

// ToggleLike flips a like
func (s *Storage) ToggleLike(ctx context.Context, postID, userID string) (storage.LikeChange, error) {
	return s.content.ToggleLike(ctx, postID, userID)
}

// ToggleReaction sets, replaces or clears a reaction
func (s *Storage) ToggleReaction(ctx context.Context, userID string, target models.Target, emoji string) (storage.ReactionChange, error) {
	return s.content.ToggleReaction(ctx, userID, target, emoji)
}

// CountReactions tallies reactions on a target
func (s *Storage) CountReactions(ctx context.Context, target models.Target) (map[string]int, error) {
	return s.content.CountReactions(ctx, target)
}

// --- Points log operations ---

// AppendLog records a credit
func (s *Storage) AppendLog(ctx context.Context, entry *models.PointsLogEntry) error {
	return s.log.Append(ctx, entry)
}

// ListLog returns a user's history, newest first
func (s *Storage) ListLog(ctx context.Context, userID string, limit int) ([]models.PointsLogEntry, error) {
	return s.log.List(ctx, userID, limit)
}
