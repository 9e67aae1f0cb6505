// ABOUTME: Sync commands for Charm cloud backup of accounts and points history
// ABOUTME: Provides status, push, pull, and keys management
package commands

import (
	"context"
	"fmt"

	"github.com/harper/growth-tribe/internal/charm"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Back up points to Charm cloud",
		Long: `Back up and restore account snapshots with Charm cloud.

Points live in local SQLite storage. Charm authenticates with your SSH
keys, so every device linked to the same Charm account can pull the
same snapshots.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncKeysCmd())

	return cmd
}

// openBackup opens the local app and the charm client
func openBackup() (*app, *charm.Client, *charm.Backup, error) {
	a, err := openApp()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := charm.NewClient(charm.Config{
		Host:     a.cfg.CharmHost,
		DBName:   a.cfg.CharmDBName,
		AutoSync: a.cfg.AutoSync,
	})
	if err != nil {
		_ = a.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return a, client, charm.NewBackup(client, a.log), nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, client, backup, err := openBackup()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			defer func() { _ = client.Close() }()

			st, err := backup.Status()
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(cmd, st)
			}

			out := cmd.OutOrStdout()
			if id, err := client.ID(); err != nil {
				_, _ = fmt.Fprintln(out, "Status: Not connected")
				_, _ = fmt.Fprintln(out, "Run 'tribe sync keys' to check your SSH keys")
			} else {
				_, _ = fmt.Fprintln(out, "Status: Connected")
				_, _ = fmt.Fprintf(out, "User ID: %s\n", id)
			}
			_, _ = fmt.Fprintf(out, "Host: %s\n", st.Host)
			_, _ = fmt.Fprintf(out, "Database: %s\n", st.DBName)
			_, _ = fmt.Fprintf(out, "Accounts backed up: %d\n", st.Accounts)
			_, _ = fmt.Fprintf(out, "Log entries backed up: %d\n", st.LogEntries)
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload every account snapshot and the points log",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, client, backup, err := openBackup()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			defer func() { _ = client.Close() }()

			n, err := backup.Push(context.Background(), a.store)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			if !quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Pushed %d account(s)\n", n)
			}
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Restore account snapshots from the cloud",
		Long: `Restore account snapshots from Charm cloud. Local accounts that
changed more recently than their snapshot are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, client, backup, err := openBackup()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			defer func() { _ = client.Close() }()

			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			n, err := backup.Pull(context.Background(), a.store)
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}
			if !quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Restored %d account(s)\n", n)
			}
			return nil
		},
	}
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := loadConfig()
			if err != nil {
				return err
			}
			keys, err := charm.AuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			if keys == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No authorized keys found")
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Authorized SSH keys:")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), keys)
			return nil
		},
	}
}
