// ABOUTME: Community content storage operations for SQLite
// ABOUTME: Posts, comments, like sets and per-user emoji reactions
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/harper/growth-tribe/internal/storage"
)

// querier is satisfied by both *DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ContentStore handles post, comment, like and reaction persistence
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// CreatePost saves a new post, assigning an id and timestamp when missing
func (s *ContentStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, author_name, author_badge, title, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, post.PostID, post.AuthorID, nullString(post.AuthorName), nullString(post.AuthorBadge),
		nullString(post.Title), post.Content, post.CreatedAt)

	return err
}

// GetPost retrieves a post with its like set, comment count and reaction tally
func (s *ContentStore) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, postID)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadEngagement(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns up to limit posts, newest first. A limit <= 0 returns all.
func (s *ContentStore) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC, p.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// release the connection before the per-post queries
	_ = rows.Close()

	for i := range posts {
		if err := s.loadEngagement(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

const postSelect = `
	SELECT p.id, p.author_id, p.author_name, p.author_badge, p.title, p.content, p.created_at,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
	FROM posts p`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post       models.Post
		authorName sql.NullString
		badge      sql.NullString
		title      sql.NullString
	)
	if err := row.Scan(&post.PostID, &post.AuthorID, &authorName, &badge, &title,
		&post.Content, &post.CreatedAt, &post.CommentCount); err != nil {
		return nil, err
	}
	post.AuthorName = authorName.String
	post.AuthorBadge = badge.String
	post.Title = title.String
	return &post, nil
}

// loadEngagement fills the like set and reaction tally of post
func (s *ContentStore) loadEngagement(ctx context.Context, post *models.Post) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM post_likes WHERE post_id = ? ORDER BY created_at, rowid
	`, post.PostID)
	if err != nil {
		return err
	}

	post.Likes = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			_ = rows.Close()
			return err
		}
		post.Likes = append(post.Likes, userID)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return err
	}
	post.LikeCount = len(post.Likes)

	reactions, err := s.CountReactions(ctx, models.Target{Kind: models.TargetPost, ID: post.PostID})
	if err != nil {
		return err
	}
	post.Reactions = reactions
	return nil
}

// AddComment saves a comment on an existing post
func (s *ContentStore) AddComment(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := targetExists(ctx, tx, models.Target{Kind: models.TargetPost, ID: comment.PostID}); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, post_id, author_id, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, comment.CommentID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt)
		return err
	})
}

// GetComment retrieves a comment by id
func (s *ContentStore) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE id = ?
	`, commentID).Scan(&c.CommentID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", commentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns a post's comments, oldest first
func (s *ContentStore) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE post_id = ?
		ORDER BY created_at, rowid
	`, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.CommentID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ToggleLike flips userID's presence in the post's like set. Changed is
// false only when a concurrent toggle already produced the same state.
func (s *ContentStore) ToggleLike(ctx context.Context, postID, userID string) (storage.LikeChange, error) {
	var change storage.LikeChange

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := targetExists(ctx, tx, models.Target{Kind: models.TargetPost, ID: postID}); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(post_id, user_id) DO NOTHING
		`, postID, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			change = storage.LikeChange{Liked: true, Changed: true}
			return nil
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`, postID, userID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		change = storage.LikeChange{Liked: false, Changed: n == 1}
		return nil
	})

	return change, err
}

// ToggleReaction applies the reaction picker rules: no reaction yet sets
// emoji, the same emoji again clears it, a different emoji replaces it
func (s *ContentStore) ToggleReaction(ctx context.Context, userID string, target models.Target, emoji string) (storage.ReactionChange, error) {
	var change storage.ReactionChange

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := targetExists(ctx, tx, target); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			SELECT emoji FROM reactions
			WHERE user_id = ? AND target_kind = ? AND target_id = ?
		`, userID, string(target.Kind), target.ID).Scan(&change.Previous)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		switch change.Previous {
		case "":
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reactions (user_id, target_kind, target_id, emoji, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, userID, string(target.Kind), target.ID, emoji, time.Now().UTC())
			change.Current = emoji
		case emoji:
			_, err = tx.ExecContext(ctx, `
				DELETE FROM reactions
				WHERE user_id = ? AND target_kind = ? AND target_id = ?
			`, userID, string(target.Kind), target.ID)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE reactions SET emoji = ?, created_at = ?
				WHERE user_id = ? AND target_kind = ? AND target_id = ?
			`, emoji, time.Now().UTC(), userID, string(target.Kind), target.ID)
			change.Current = emoji
		}
		return err
	})

	return change, err
}

// CountReactions tallies reactions on target by emoji
func (s *ContentStore) CountReactions(ctx context.Context, target models.Target) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT emoji, COUNT(*) FROM reactions
		WHERE target_kind = ? AND target_id = ?
		GROUP BY emoji
	`, string(target.Kind), target.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			emoji string
			n     int
		)
		if err := rows.Scan(&emoji, &n); err != nil {
			return nil, err
		}
		counts[emoji] = n
	}
	return counts, rows.Err()
}

// targetExists returns storage.ErrNotFound when the post or comment is missing
func targetExists(ctx context.Context, q querier, target models.Target) error {
	var table string
	switch target.Kind {
	case models.TargetPost:
		table = "posts"
	case models.TargetComment:
		table = "comments"
	default:
		return fmt.Errorf("unknown target kind %q", target.Kind)
	}

	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, target.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", target.Kind, target.ID, storage.ErrNotFound)
	}
	return err
}

// nullString converts empty strings to SQL NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
