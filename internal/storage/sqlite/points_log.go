// ABOUTME: Points history storage operations for SQLite
// ABOUTME: Append-only; entries are listed newest first
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harper/growth-tribe/internal/models"
)

// PointsLogStore handles points history persistence
type PointsLogStore struct {
	db *DB
}

// NewPointsLogStore creates a new PointsLogStore
func NewPointsLogStore(db *DB) *PointsLogStore {
	return &PointsLogStore{db: db}
}

// Append saves an entry, assigning an id and timestamp when missing
func (s *PointsLogStore) Append(ctx context.Context, entry *models.PointsLogEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO points_log (id, user_id, kind, delta, applied, description, reference_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.EntryID, entry.UserID, string(entry.Kind), entry.Delta, entry.Applied,
		nullString(entry.Description), nullString(entry.ReferenceID), entry.CreatedAt)

	return err
}

// List returns up to limit entries for userID, newest first. A limit <= 0
// returns everything. An empty userID lists every account's entries.
func (s *PointsLogStore) List(ctx context.Context, userID string, limit int) ([]models.PointsLogEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, user_id, kind, delta, applied, description, reference_id, created_at
		FROM points_log
	`
	args := []interface{}{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.PointsLogEntry
	for rows.Next() {
		var (
			entry       models.PointsLogEntry
			kind        string
			description sql.NullString
			referenceID sql.NullString
		)
		if err := rows.Scan(&entry.EntryID, &entry.UserID, &kind, &entry.Delta, &entry.Applied,
			&description, &referenceID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Kind = models.ActionKind(kind)
		entry.Description = description.String
		entry.ReferenceID = referenceID.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
