// ABOUTME: Export functionality for tribe data
// ABOUTME: Supports YAML, JSON and Markdown export formats
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string          `yaml:"version" json:"version"`
	ExportedAt string          `yaml:"exported_at" json:"exported_at"`
	Tool       string          `yaml:"tool" json:"tool"`
	Accounts   []ExportAccount `yaml:"accounts,omitempty" json:"accounts,omitempty"`
	PointsLog  []ExportEntry   `yaml:"points_log,omitempty" json:"points_log,omitempty"`
	Posts      []ExportPost    `yaml:"posts,omitempty" json:"posts,omitempty"`
}

// ExportAccount represents a points account for export
type ExportAccount struct {
	UserID      string `yaml:"user_id" json:"user_id"`
	Username    string `yaml:"username" json:"username"`
	TotalPoints int64  `yaml:"total_points" json:"total_points"`
	CreatedAt   string `yaml:"created_at" json:"created_at"`
	UpdatedAt   string `yaml:"updated_at" json:"updated_at"`
}

// ExportEntry represents a points log entry for export
type ExportEntry struct {
	EntryID     string `yaml:"entry_id" json:"entry_id"`
	UserID      string `yaml:"user_id" json:"user_id"`
	Kind        string `yaml:"kind" json:"kind"`
	Delta       int64  `yaml:"delta" json:"delta"`
	Applied     int64  `yaml:"applied" json:"applied"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	CreatedAt   string `yaml:"created_at" json:"created_at"`
}

// ExportPost represents a post with its comments for export
type ExportPost struct {
	PostID      string          `yaml:"post_id" json:"post_id"`
	AuthorID    string          `yaml:"author_id" json:"author_id"`
	AuthorBadge string          `yaml:"author_badge,omitempty" json:"author_badge,omitempty"`
	Title       string          `yaml:"title,omitempty" json:"title,omitempty"`
	Content     string          `yaml:"content" json:"content"`
	Likes       []string        `yaml:"likes,omitempty" json:"likes,omitempty"`
	Reactions   map[string]int  `yaml:"reactions,omitempty" json:"reactions,omitempty"`
	CreatedAt   string          `yaml:"created_at" json:"created_at"`
	Comments    []ExportComment `yaml:"comments,omitempty" json:"comments,omitempty"`
}

// ExportComment represents a comment for export
type ExportComment struct {
	CommentID string `yaml:"comment_id" json:"comment_id"`
	AuthorID  string `yaml:"author_id" json:"author_id"`
	Content   string `yaml:"content" json:"content"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
}

// Export exports all data from storage
func (s *Storage) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "tribe",
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, a := range accounts {
		data.Accounts = append(data.Accounts, ExportAccount{
			UserID:      a.UserID,
			Username:    a.Username,
			TotalPoints: a.TotalPoints,
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
		})
	}

	entries, err := s.log.List(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list points log: %w", err)
	}
	for _, e := range entries {
		data.PointsLog = append(data.PointsLog, ExportEntry{
			EntryID:     e.EntryID,
			UserID:      e.UserID,
			Kind:        string(e.Kind),
			Delta:       e.Delta,
			Applied:     e.Applied,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}

	posts, err := s.content.ListPosts(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	for _, p := range posts {
		exportPost := ExportPost{
			PostID:      p.PostID,
			AuthorID:    p.AuthorID,
			AuthorBadge: p.AuthorBadge,
			Title:       p.Title,
			Content:     p.Content,
			Likes:       p.Likes,
			Reactions:   p.Reactions,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		}

		comments, err := s.content.ListComments(ctx, p.PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for %s: %w", p.PostID, err)
		}
		for _, c := range comments {
			exportPost.Comments = append(exportPost.Comments, ExportComment{
				CommentID: c.CommentID,
				AuthorID:  c.AuthorID,
				Content:   c.Content,
				CreatedAt: c.CreatedAt.Format(time.RFC3339),
			})
		}

		data.Posts = append(data.Posts, exportPost)
	}

	return data, nil
}

// WriteYAML encodes data as YAML
func (d *ExportData) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes data as indented JSON
func (d *ExportData) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders data as a readable Markdown report
func (d *ExportData) WriteMarkdown(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Tribe Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", d.ExportedAt)

	if len(d.Accounts) > 0 {
		_, _ = fmt.Fprintln(w, "## Accounts")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| User | Username | Points |")
		_, _ = fmt.Fprintln(w, "|------|----------|--------|")
		for _, a := range d.Accounts {
			_, _ = fmt.Fprintf(w, "| %s | %s | %d |\n", a.UserID, a.Username, a.TotalPoints)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(d.Posts) > 0 {
		_, _ = fmt.Fprintln(w, "## Posts")
		_, _ = fmt.Fprintln(w)
		for _, p := range d.Posts {
			title := p.Title
			if title == "" {
				title = "(untitled)"
			}
			_, _ = fmt.Fprintf(w, "### %s\n\n", title)
			_, _ = fmt.Fprintf(w, "*by %s, %d likes*\n\n", p.AuthorID, len(p.Likes))
			_, _ = fmt.Fprintf(w, "%s\n\n", p.Content)
			for _, c := range p.Comments {
				_, _ = fmt.Fprintf(w, "> **%s:** %s\n\n", c.AuthorID, c.Content)
			}
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w)
		}
	}

	return nil
}

// ExportToFile writes the export to outputPath in format (yaml, json or markdown)
func (s *Storage) ExportToFile(ctx context.Context, outputPath, format string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch format {
	case "yaml", "yml", "":
		return data.WriteYAML(file)
	case "json":
		return data.WriteJSON(file)
	case "markdown", "md":
		return data.WriteMarkdown(file)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
