// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/parley-tui/internal/model"
)

func openTestCache(t *testing.T) *MetadataCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleMetas() []model.ConversationMeta {
	now := time.Now().UTC().Truncate(time.Second)
	return []model.ConversationMeta{
		{ID: "c1", Title: "Newest", UserID: "u1", CreatedAt: now, UpdatedAt: now},
		{ID: "c2", Title: "Older", UserID: "u1", CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)},
		{ID: "c3", Title: "", UserID: "u1"},
	}
}

func TestCache_ReplaceAndList(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Replace(ctx, sampleMetas()); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(got))
	}
	// Server ordering survives the round trip.
	if got[0].ID != "c1" || got[1].ID != "c2" || got[2].ID != "c3" {
		t.Errorf("order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Title != "Newest" {
		t.Errorf("Title = %q", got[0].Title)
	}
}

func TestCache_ReplaceIsWholesale(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Replace(ctx, sampleMetas()); err != nil {
		t.Fatal(err)
	}
	// A shorter live list fully replaces the cached one.
	if err := c.Replace(ctx, sampleMetas()[:1]); err != nil {
		t.Fatal(err)
	}

	got, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("List = %v, want just c1", got)
	}
}

func TestCache_EmptyListsAreFine(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	got, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List on empty cache failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("empty cache should list as empty slice, got %v", got)
	}

	if err := c.Replace(ctx, nil); err != nil {
		t.Errorf("Replace(nil) failed: %v", err)
	}
}

func TestCache_Delete(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Replace(ctx, sampleMetas()); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "c2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, _ := c.List(ctx)
	if len(got) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(got))
	}
	for _, meta := range got {
		if meta.ID == "c2" {
			t.Error("c2 should be gone")
		}
	}
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Replace(ctx, sampleMetas()); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, _ := c.List(ctx)
	if len(got) != 0 {
		t.Errorf("cache should be empty after Clear, got %v", got)
	}
}

func TestCache_Touch(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	if err := c.Replace(ctx, sampleMetas()); err != nil {
		t.Fatal(err)
	}
	if err := c.Touch(ctx, "c3", "Fresh Title"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, _ := c.List(ctx)
	for _, meta := range got {
		if meta.ID == "c3" && meta.Title != "Fresh Title" {
			t.Errorf("c3 title = %q, want Fresh Title", meta.Title)
		}
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Replace(ctx, sampleMetas()); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	got, err := second.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("reopened cache has %d entries, want 3", len(got))
	}
}
