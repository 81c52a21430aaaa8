package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hammamikhairi/aichef/internal/domain"
)

// testRecentOrdering saves twelve entries with increasing timestamps and
// checks Recent returns them newest first, capped at the limit.
func testRecentOrdering(t *testing.T, store domain.HistoryStore) {
	t.Helper()
	ctx := context.Background()
	user := fmt.Sprintf("user-%d", time.Now().UnixNano())
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := range 12 {
		e := &domain.HistoryEntry{
			RawText:     fmt.Sprintf("Dish %d\nServings: 2", i),
			Ingredients: "eggs",
			MaxMinutes:  30,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, user, e); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, err := store.Recent(ctx, user, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(got))
	}
	if got[0].RawText != "Dish 11\nServings: 2" {
		t.Fatalf("expected newest first, got %q", got[0].RawText)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("entries out of order at %d", i)
		}
	}

	three, err := store.Recent(ctx, user, 3)
	if err != nil {
		t.Fatalf("recent(3): %v", err)
	}
	if len(three) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(three))
	}

	one, err := store.Get(ctx, user, three[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one.RawText != three[1].RawText {
		t.Fatalf("get returned %q, want %q", one.RawText, three[1].RawText)
	}
	if _, err := store.Get(ctx, user, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
