// ABOUTME: Points account storage operations for SQLite
// ABOUTME: Increments read and write the clamped total inside one write transaction
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/growth-tribe/internal/ledger"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/harper/growth-tribe/internal/storage"
)

// AccountStore handles points account persistence
type AccountStore struct {
	db *DB
}

// NewAccountStore creates a new AccountStore
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

// Get retrieves an account, returning storage.ErrNotFound if missing
func (s *AccountStore) Get(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, total_points, created_at, updated_at
		FROM accounts
		WHERE user_id = ?
	`, userID).Scan(&account.UserID, &account.Username, &account.TotalPoints, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account with initialPoints (negative values are stored as zero)
func (s *AccountStore) Create(ctx context.Context, userID, username string, initialPoints int64) (*models.Account, error) {
	if initialPoints < 0 {
		initialPoints = 0
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, username, total_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, userID, username, initialPoints, now, now)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("account %s: %w", userID, storage.ErrAlreadyExists)
	}

	return &models.Account{
		UserID:      userID,
		Username:    username,
		TotalPoints: initialPoints,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Increment adds delta to the account, clamping at zero, and returns the
// totals before and after the committed update
func (s *AccountStore) Increment(ctx context.Context, userID string, delta int64) (before, after int64, err error) {
	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT total_points FROM accounts WHERE user_id = ?`, userID).Scan(&before)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("account %s: %w", userID, storage.ErrNotFound)
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, `
			UPDATE accounts
			SET total_points = ?, updated_at = ?
			WHERE user_id = ?
			RETURNING total_points
		`, ledger.ClampedSum(before, delta), time.Now().UTC(), userID).Scan(&after)
	})
	return before, after, err
}

// List returns every account ordered by user id
func (s *AccountStore) List(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, username, total_points, created_at, updated_at
		FROM accounts
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.UserID, &a.Username, &a.TotalPoints, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Restore writes a snapshot of an account (upsert), used when pulling a backup
func (s *AccountStore) Restore(ctx context.Context, account *models.Account) error {
	total := account.TotalPoints
	if total < 0 {
		total = 0
	}
	updatedAt := account.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, username, total_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username = excluded.username,
			total_points = excluded.total_points,
			updated_at = excluded.updated_at
	`, account.UserID, account.Username, total, createdAt, updatedAt)
	return err
}
