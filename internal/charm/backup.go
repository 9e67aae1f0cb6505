// ABOUTME: Pushes account snapshots and points history to charm KV and restores them
// ABOUTME: Mirror keeps one member's snapshot current by following committed changes
package charm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/sirupsen/logrus"
)

// Source is the local data a backup reads from and restores into
type Source interface {
	ReadAccount(ctx context.Context, userID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListLog(ctx context.Context, userID string, limit int) ([]models.PointsLogEntry, error)
	RestoreAccount(ctx context.Context, account *models.Account) error
	Subscribe(userID string) (<-chan models.AccountChange, func())
}

// Status summarizes what is stored remotely
type Status struct {
	Host       string `json:"host"`
	DBName     string `json:"db_name"`
	AutoSync   bool   `json:"auto_sync"`
	Accounts   int    `json:"accounts"`
	LogEntries int    `json:"log_entries"`
}

// Backup moves account data between a Source and a Client
type Backup struct {
	client *Client
	log    *logrus.Entry
}

// NewBackup creates a backup over client
func NewBackup(client *Client, log logrus.FieldLogger) *Backup {
	return &Backup{
		client: client,
		log:    logging.Component(log, "charm"),
	}
}

// Push writes every account snapshot and log entry to the KV store and
// returns how many accounts were written
func (b *Backup) Push(ctx context.Context, src Source) (int, error) {
	accounts, err := src.ListAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := b.client.SetJSON(AccountKey(accounts[i].UserID), accounts[i]); err != nil {
			return i, err
		}
	}

	entries, err := src.ListLog(ctx, "", 0)
	if err != nil {
		return len(accounts), fmt.Errorf("failed to list points log: %w", err)
	}
	for _, entry := range entries {
		if err := b.client.SetJSON(LogKey(entry.EntryID), entry); err != nil {
			return len(accounts), err
		}
	}

	b.log.WithFields(logrus.Fields{
		"accounts": len(accounts),
		"entries":  len(entries),
	}).Info("pushed backup")
	return len(accounts), nil
}

// Pull restores every account snapshot found in the KV store and returns
// how many were restored. Local accounts with a newer UpdatedAt are kept.
func (b *Backup) Pull(ctx context.Context, src Source) (int, error) {
	keys, err := b.client.ListKeys(AccountPrefix)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return restored, err
		}
		var account models.Account
		if err := b.client.GetJSON(key, &account); err != nil {
			b.log.WithError(err).WithField("key", key).Warn("skipping unreadable snapshot")
			continue
		}
		if local, err := src.ReadAccount(ctx, account.UserID); err == nil && local.UpdatedAt.After(account.UpdatedAt) {
			continue
		}
		if err := src.RestoreAccount(ctx, &account); err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", account.UserID, err)
		}
		restored++
	}

	b.log.WithField("accounts", restored).Info("pulled backup")
	return restored, nil
}

// Status counts the snapshots held remotely
func (b *Backup) Status() (Status, error) {
	cfg := b.client.Config()
	st := Status{Host: cfg.Host, DBName: cfg.DBName, AutoSync: cfg.AutoSync}

	accounts, err := b.client.ListKeys(AccountPrefix)
	if err != nil {
		return st, err
	}
	entries, err := b.client.ListKeys(LogPrefix)
	if err != nil {
		return st, err
	}
	st.Accounts = len(accounts)
	st.LogEntries = len(entries)
	return st, nil
}

// Mirror writes userID's snapshot after every committed change until ctx
// is done
func (b *Backup) Mirror(ctx context.Context, src Source, userID string) {
	changes, cancel := src.Subscribe(userID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			account, err := src.ReadAccount(ctx, change.UserID)
			if err != nil {
				b.log.WithError(err).WithField("user_id", change.UserID).Warn("mirror read failed")
				continue
			}
			if err := b.client.SetJSON(AccountKey(account.UserID), account); err != nil {
				b.log.WithError(err).WithField("user_id", change.UserID).Warn("mirror write failed")
				continue
			}
			b.log.WithFields(logrus.Fields{
				"user_id": change.UserID,
				"points":  account.TotalPoints,
				"at":      change.ChangedAt.Format(time.RFC3339),
			}).Debug("mirrored account")
		}
	}
}
