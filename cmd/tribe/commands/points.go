// ABOUTME: Read-only points commands: wallet, badges and the points log
// ABOUTME: Output follows --format (table or json)
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	logLimit int
	logAll   bool
)

// NewWalletCmd creates the wallet command
func NewWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show your points and their peso value",
		Long: `Show your wallet. Every 100 points are worth 1 peso.

Examples:
  tribe wallet`,
		RunE: runWallet,
	}
}

func runWallet(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	account, err := a.member(ctx)
	if err != nil {
		return err
	}
	wallet, err := a.engagement.Wallet(ctx, account.UserID)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, wallet)
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Points: %d\n", wallet.Points)
	_, _ = fmt.Fprintf(out, "Value:  ₱%s\n", wallet.PesoValue)
	_, _ = fmt.Fprintf(out, "Next peso: %d/100\n", wallet.ProgressToNextPeso)
	return nil
}

// NewBadgesCmd creates the badges command
func NewBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show every badge and which you have unlocked",
		RunE:  runBadges,
	}
}

func runBadges(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	account, err := a.member(ctx)
	if err != nil {
		return err
	}
	board, err := a.engagement.Badges(ctx, account.UserID)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, board)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "BADGE\tPOINTS\tSTATUS\n")
	_, _ = fmt.Fprintf(w, "-----\t------\t------\n")
	for _, b := range board.Badges {
		status := "locked"
		switch {
		case b.Current:
			status = "current"
		case b.Unlocked:
			status = "unlocked"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", b.Tier.Name, b.Tier.MinPoints, status)
	}
	_ = w.Flush()

	if !quiet && board.Next != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d points to %s\n", board.Next.MinPoints-board.Points, board.Next.Name)
	}
	return nil
}

// NewLogCmd creates the log command
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show your points history",
		Long: `Show the points log, newest first. Applied can differ from the
action's delta when your total was clamped at zero.

Examples:
  tribe log
  tribe log --limit 50
  tribe log --all --format json`,
		RunE: runLog,
	}

	cmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&logAll, "all", false, "Show entries for every member")

	return cmd
}

func runLog(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(logLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	userID := ""
	if !logAll {
		account, err := a.member(ctx)
		if err != nil {
			return err
		}
		userID = account.UserID
	}

	entries, err := a.engagement.History(ctx, userID, logLimit)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		if !quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No points yet")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "WHEN\tMEMBER\tACTION\tDELTA\tAPPLIED\tDETAIL\n")
	_, _ = fmt.Fprintf(w, "----\t------\t------\t-----\t-------\t------\n")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatTime(e.CreatedAt),
			e.UserID,
			e.Kind,
			formatSigned(e.Delta),
			formatSigned(e.Applied),
			truncate(e.Description, 40))
	}
	return w.Flush()
}
