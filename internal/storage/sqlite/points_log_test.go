// ABOUTME: Tests for points history storage operations
// ABOUTME: Verifies append, ordering and per-user filtering
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/harper/growth-tribe/internal/models"
)

func TestPointsLog(t *testing.T) {
	ctx := context.Background()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	accounts := NewAccountStore(db)
	_, _ = accounts.Create(ctx, "u1", "maya", 0)
	_, _ = accounts.Create(ctx, "u2", "ari", 0)

	store := NewPointsLogStore(db)
	base := time.Now().UTC()
	entries := []*models.PointsLogEntry{
		{UserID: "u1", Kind: models.ActionCreatePost, Delta: 10, Applied: 10, ReferenceID: "p1", CreatedAt: base},
		{UserID: "u2", Kind: models.ActionLike, Delta: 1, Applied: 1, CreatedAt: base.Add(time.Second)},
		{UserID: "u1", Kind: models.ActionUnlike, Delta: -1, Applied: 0, Description: "clamped", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if e.EntryID == "" {
			t.Error("Append() should assign an id")
		}
	}

	got, err := store.List(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List(u1) returned %d entries, want 2", len(got))
	}
	if got[0].Kind != models.ActionUnlike || got[0].Applied != 0 || got[0].Description != "clamped" {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[1].ReferenceID != "p1" {
		t.Errorf("ReferenceID = %s, want p1", got[1].ReferenceID)
	}

	limited, _ := store.List(ctx, "", 1)
	if len(limited) != 1 || limited[0].UserID != "u1" {
		t.Errorf("List(\"\", 1) = %+v", limited)
	}

	all, _ := store.List(ctx, "", 0)
	if len(all) != 3 {
		t.Errorf("List(\"\", 0) returned %d entries, want 3", len(all))
	}
}

func TestPointsLogRequiresAccount(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	err = NewPointsLogStore(db).Append(context.Background(), &models.PointsLogEntry{UserID: "ghost", Kind: models.ActionShare, Delta: 3})
	if err == nil {
		t.Error("Append() for a missing account should violate the foreign key")
	}
}
