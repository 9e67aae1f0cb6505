// ABOUTME: Tests for export functionality
// ABOUTME: Verifies YAML, JSON and Markdown export formats
package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/growth-tribe/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExport(t *testing.T, store *Storage) {
	t.Helper()
	ctx := context.Background()

	_, _ = store.CreateAccount(ctx, "u1", "maya", 100)
	_, _ = store.CreateAccount(ctx, "u2", "ari", 100)

	post := &models.Post{AuthorID: "u1", AuthorBadge: "Seedling", Title: "Gratitude", Content: "Three good things."}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	_ = store.AddComment(ctx, &models.Comment{PostID: post.PostID, AuthorID: "u2", Content: "Love this"})
	_, _ = store.ToggleLike(ctx, post.PostID, "u2")
	_ = store.AppendLog(ctx, &models.PointsLogEntry{UserID: "u1", Kind: models.ActionCreatePost, Delta: 10, Applied: 10})
}

func TestExport(t *testing.T) {
	store := newTestStorage(t)
	seedExport(t, store)

	data, err := store.Export(context.Background())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if data.Version != "1.0" {
		t.Errorf("Version = %v, want 1.0", data.Version)
	}
	if data.Tool != "tribe" {
		t.Errorf("Tool = %v, want tribe", data.Tool)
	}
	if len(data.Accounts) != 2 {
		t.Errorf("Accounts = %d, want 2", len(data.Accounts))
	}
	if len(data.PointsLog) != 1 || data.PointsLog[0].Kind != "create_post" {
		t.Errorf("PointsLog = %+v", data.PointsLog)
	}
	if len(data.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1", len(data.Posts))
	}
	if len(data.Posts[0].Comments) != 1 || len(data.Posts[0].Likes) != 1 {
		t.Errorf("post engagement = %+v", data.Posts[0])
	}
}

func TestExportToFile(t *testing.T) {
	store := newTestStorage(t)
	seedExport(t, store)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "out", "tribe.yaml")
	if err := store.ExportToFile(context.Background(), yamlPath, "yaml"); err != nil {
		t.Fatalf("ExportToFile(yaml) error = %v", err)
	}
	raw, _ := os.ReadFile(yamlPath)
	var fromYAML ExportData
	if err := yaml.Unmarshal(raw, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(fromYAML.Accounts) != 2 {
		t.Errorf("YAML accounts = %d, want 2", len(fromYAML.Accounts))
	}

	jsonPath := filepath.Join(dir, "tribe.json")
	if err := store.ExportToFile(context.Background(), jsonPath, "json"); err != nil {
		t.Fatalf("ExportToFile(json) error = %v", err)
	}
	raw, _ = os.ReadFile(jsonPath)
	var fromJSON ExportData
	if err := json.Unmarshal(raw, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if fromJSON.Posts[0].Title != "Gratitude" {
		t.Errorf("JSON post title = %s", fromJSON.Posts[0].Title)
	}

	mdPath := filepath.Join(dir, "tribe.md")
	if err := store.ExportToFile(context.Background(), mdPath, "markdown"); err != nil {
		t.Fatalf("ExportToFile(markdown) error = %v", err)
	}
	raw, _ = os.ReadFile(mdPath)
	md := string(raw)
	for _, want := range []string{"# Tribe Export", "## Accounts", "### Gratitude", "Love this"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}

	if err := store.ExportToFile(context.Background(), filepath.Join(dir, "x.csv"), "csv"); err == nil {
		t.Error("ExportToFile(csv) should fail")
	}
}
