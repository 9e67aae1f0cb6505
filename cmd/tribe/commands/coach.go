// ABOUTME: AI coach commands: ask the growth coach, draft a post
// ABOUTME: Busy and failure messages are printed like any reply; they are not errors
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var draftPublish bool

// NewCoachCmd creates the coach command
func NewCoachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coach <message>",
		Short: "Talk to the AI growth coach",
		Long: `Share what is on your mind and get a supportive reply with one
small growth step. Busy AI services are retried with backoff; press
Ctrl-C to stop waiting.

Examples:
  tribe coach "I keep procrastinating on my goals"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCoach,
	}
}

func runCoach(cmd *cobra.Command, args []string) error {
	question, err := readText(cmd, args, "")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	account, err := a.member(ctx)
	if err != nil {
		return err
	}
	coach, err := a.coach()
	if err != nil {
		return err
	}

	res, err := coach.Ask(ctx, account.UserID, question)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{
			"text":      res.Message(),
			"generated": res.OK(),
			"attempts":  res.Attempts,
		})
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message())
	return nil
}

// NewDraftCmd creates the draft command
func NewDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Let the AI coach draft an uplifting post",
		Long: `Draft a short post about growth, resilience or self-care.

Examples:
  tribe draft
  tribe draft --publish`,
		Args: cobra.NoArgs,
		RunE: runDraft,
	}

	cmd.Flags().BoolVar(&draftPublish, "publish", false, "Publish the draft as a post")

	return cmd
}

func runDraft(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	account, err := a.member(ctx)
	if err != nil {
		return err
	}
	coach, err := a.coach()
	if err != nil {
		return err
	}

	res := coach.Draft(ctx, account.UserID)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message())

	if !draftPublish {
		return nil
	}
	if !res.OK() {
		return fmt.Errorf("nothing to publish: %s", res.Kind)
	}

	post, credit, err := a.engagement.CreatePost(ctx, account.UserID, "", res.Text)
	if err != nil {
		return err
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s\n", post.PostID)
	}
	printCredit(cmd.OutOrStdout(), account.UserID, credit)
	return nil
}
