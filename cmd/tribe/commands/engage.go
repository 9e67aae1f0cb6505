// ABOUTME: Commands that engage with content: like and react
// ABOUTME: The content's author is credited; your own content earns nothing
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/growth-tribe/internal/models"
	"github.com/spf13/cobra"
)

var reactOnComment bool

// NewLikeCmd creates the like command
func NewLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like a post, or unlike it if already liked",
		Long: `Toggle your like on a post. The author gains 1 point for a like
and loses it again on unlike.

Examples:
  tribe like 3f2a...`,
		Args: cobra.ExactArgs(1),
		RunE: runLike,
	}
}

func runLike(cmd *cobra.Command, args []string) error {
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

	change, credit, err := a.engagement.ToggleLike(ctx, account.UserID, args[0])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{"liked": change.Liked, "credit": credit})
	}
	if !quiet {
		if change.Liked {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "❤️ Liked")
		} else {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Like removed")
		}
	}
	printCredit(cmd.OutOrStdout(), account.UserID, credit)
	return nil
}

// NewReactCmd creates the react command
func NewReactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "react <post-or-comment-id> <emoji>",
		Short: "React to a post or comment",
		Long: `React with one of: ` + strings.Join(models.ReactionEmojis, " ") + `

Reacting with the same emoji again removes your reaction; a different
emoji replaces it. The author gains 2 points when your reaction appears
and loses them when you remove it.

Examples:
  tribe react 3f2a... 🔥
  tribe react --comment 9b1c... 🙏`,
		Args: cobra.ExactArgs(2),
		RunE: runReact,
	}

	cmd.Flags().BoolVar(&reactOnComment, "comment", false, "Target is a comment id")

	return cmd
}

func runReact(cmd *cobra.Command, args []string) error {
	target := models.Target{Kind: models.TargetPost, ID: args[0]}
	if reactOnComment {
		target.Kind = models.TargetComment
	}

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

	change, credit, err := a.engagement.React(ctx, account.UserID, target, args[1])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{
			"previous": change.Previous,
			"current":  change.Current,
			"credit":   credit,
		})
	}
	if !quiet {
		switch {
		case change.Current == "":
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", change.Previous)
		case change.Previous == "":
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reacted %s\n", change.Current)
		default:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Changed %s to %s\n", change.Previous, change.Current)
		}
	}
	printCredit(cmd.OutOrStdout(), account.UserID, credit)
	return nil
}
