// ABOUTME: Commands that publish content: post, comment and share
// ABOUTME: Each prints the points earned by the action
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	postTitle string
	postFile  string
)

// NewPostCmd creates the post command
func NewPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [text]",
		Short: "Publish a post to the community feed",
		Long: `Publish a post to the community feed. Posting earns 10 points.

Examples:
  tribe post "Finished my first 5k today 💪"
  tribe post --title "Gratitude" --file today.md
  echo "Small wins count" | tribe post`,
		RunE: runPost,
	}

	cmd.Flags().StringVar(&postTitle, "title", "", "Post title")
	cmd.Flags().StringVar(&postFile, "file", "", "Read post body from file")

	return cmd
}

func runPost(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args, postFile)
	if err != nil {
		return err
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

	post, credit, err := a.engagement.CreatePost(ctx, account.UserID, postTitle, text)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{"post": post, "credit": credit})
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s\n", post.PostID)
	}
	printCredit(cmd.OutOrStdout(), account.UserID, credit)
	return nil
}

// NewCommentCmd creates the comment command
func NewCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post",
		Long: `Comment on a post. Commenting earns 5 points.

Examples:
  tribe comment 3f2a... "This made my day"`,
		Args: cobra.MinimumNArgs(2),
		RunE: runComment,
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args[1:], "")
	if err != nil {
		return err
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

	comment, credit, err := a.engagement.AddComment(ctx, account.UserID, args[0], text)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{"comment": comment, "credit": credit})
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Commented %s\n", comment.CommentID)
	}
	printCredit(cmd.OutOrStdout(), account.UserID, credit)
	return nil
}

// NewShareCmd creates the share command
func NewShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <post-id>",
		Short: "Print share text for a post",
		Long: `Print text for sharing a post outside the community. Sharing earns 3 points.

Examples:
  tribe share 3f2a... | pbcopy`,
		Args: cobra.ExactArgs(1),
		RunE: runShare,
	}
}

func runShare(cmd *cobra.Command, args []string) error {
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

	text, credit, err := a.engagement.Share(ctx, account.UserID, args[0])
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd, map[string]interface{}{"text": text, "credit": credit})
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	printCredit(cmd.ErrOrStderr(), account.UserID, credit)
	return nil
}
