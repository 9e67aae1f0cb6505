// ABOUTME: CLI command to read the community feed
// ABOUTME: Shows newest posts with likes, comments and reactions
package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harper/growth-tribe/internal/models"
	"github.com/spf13/cobra"
)

var (
	feedLimit    int
	feedComments bool
)

// NewFeedCmd creates the feed command
func NewFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the community feed",
		Long: `Show the newest posts in the community.

Examples:
  tribe feed
  tribe feed --limit 5 --comments
  tribe feed --format json`,
		RunE: runFeed,
	}

	cmd.Flags().IntVarP(&feedLimit, "limit", "n", 20, "Number of posts to show")
	cmd.Flags().BoolVar(&feedComments, "comments", false, "Include comments under each post")

	return cmd
}

func runFeed(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(feedLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	posts, err := a.engagement.Feed(ctx, feedLimit)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		if !quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No posts yet. Be the first: tribe post \"...\"")
		}
		return nil
	}

	if jsonOutput() {
		return printJSON(cmd, posts)
	}

	out := cmd.OutOrStdout()
	for _, post := range posts {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n", post.AuthorName, post.AuthorBadge, formatTime(post.CreatedAt), post.PostID)
		_ = w.Flush()

		if post.Title != "" {
			_, _ = fmt.Fprintf(out, "  %s\n", post.Title)
		}
		_, _ = fmt.Fprintf(out, "  %s\n", truncate(post.Content, 200))
		_, _ = fmt.Fprintf(out, "  ❤️ %d  💬 %d  %s\n", post.LikeCount, post.CommentCount, formatReactions(post.Reactions))

		if feedComments && post.CommentCount > 0 {
			comments, err := a.engagement.Comments(ctx, post.PostID)
			if err != nil {
				return err
			}
			for _, c := range comments {
				_, _ = fmt.Fprintf(out, "    └ %s: %s\n", c.AuthorID, truncate(c.Content, 120))
			}
		}
		_, _ = fmt.Fprintln(out)
	}

	if !quiet {
		_, _ = fmt.Fprintf(out, "Total: %d post(s)\n", len(posts))
	}
	return nil
}

// formatReactions renders reaction counts in picker order
func formatReactions(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	order := make(map[string]int, len(models.ReactionEmojis))
	for i, e := range models.ReactionEmojis {
		order[e] = i
	}

	emojis := make([]string, 0, len(counts))
	for e, n := range counts {
		if n > 0 {
			emojis = append(emojis, e)
		}
	}
	sort.Slice(emojis, func(i, j int) bool { return order[emojis[i]] < order[emojis[j]] })

	parts := make([]string, 0, len(emojis))
	for _, e := range emojis {
		parts = append(parts, fmt.Sprintf("%s %d", e, counts[e]))
	}
	return strings.Join(parts, "  ")
}
