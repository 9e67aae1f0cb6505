// ABOUTME: Account commands: show the member's points and badge, create an account
// ABOUTME: Also holds the shared printer for the points side of an action
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/growth-tribe/internal/core"
	"github.com/spf13/cobra"
)

var accountName string

// NewAccountCmd creates the account command group
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show or create your points account",
		Long: `Show or create your growth points account.

Your account is created automatically, with a welcome bonus, the first
time you use any command.

Examples:
  tribe account
  tribe account show --format json
  tribe --user maya account create --name "Maya R."`,
		RunE: runAccountShow,
	}

	cmd.AddCommand(newAccountShowCmd())
	cmd.AddCommand(newAccountCreateCmd())

	return cmd
}

func newAccountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show points, badge and progress",
		RunE:  runAccountShow,
	}
}

func newAccountCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create your account with the welcome bonus",
		RunE:  runAccountCreate,
	}
	cmd.Flags().StringVar(&accountName, "name", "", "Display name (defaults to the member id)")
	return cmd
}

func runAccountShow(cmd *cobra.Command, args []string) error {
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
		return printJSON(cmd, map[string]interface{}{
			"account": account,
			"badge":   board.Current,
			"next":    board.Next,
		})
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (%s)\n", account.Username, account.UserID)
	_, _ = fmt.Fprintf(out, "Points: %d\n", account.TotalPoints)
	_, _ = fmt.Fprintf(out, "Badge:  %s\n", board.Current.Name)
	if board.Next != nil {
		_, _ = fmt.Fprintf(out, "Next:   %s in %d points (%.0f%%)\n", board.Next.Name, board.Next.MinPoints-board.Points, board.Progress)
	}
	return nil
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	userID, err := currentUser()
	if err != nil {
		return err
	}
	account, created, err := a.engagement.EnsureAccount(context.Background(), userID, accountName)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{
			"account": account,
			"created": created,
		})
	}
	if created {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Welcome %s! You start with %d points\n", account.Username, account.TotalPoints)
	} else if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Account %s already exists (%d points)\n", account.UserID, account.TotalPoints)
	}
	return nil
}

// printCredit describes what an action did to someone's points
func printCredit(out io.Writer, actorID string, credit core.Credit) {
	if quiet {
		return
	}
	switch {
	case credit.Exempt:
		_, _ = fmt.Fprintln(out, "  No points for engaging with your own content")
	case credit.Err != nil:
		_, _ = fmt.Fprintln(out, "  Points could not be updated right now")
	case credit.Applied:
		who := "You"
		if credit.UserID != actorID {
			who = credit.UserID
		}
		_, _ = fmt.Fprintf(out, "  %s: %s points, now %d (%s)\n", who, formatSigned(credit.Result.Applied), credit.Result.NewTotal, credit.Result.TierAfter.Name)
		if credit.Result.Unlocked() {
			_, _ = fmt.Fprintf(out, "  🏅 Badge unlocked: %s!\n", credit.Result.TierAfter.Name)
		}
	}
}
