package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	entry := &domain.HistoryEntry{
		RawText:     "Garlic Pasta\nIngredients:\n- Pasta",
		Ingredients: "pasta, garlic",
		MaxMinutes:  20,
	}

	// Save.
	if err := store.Save(ctx, "user-1", entry); err != nil {
		t.Fatalf("save: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be assigned")
	}

	// Get.
	loaded, err := store.Get(ctx, "user-1", entry.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.RawText != entry.RawText || loaded.UserID != "user-1" {
		t.Fatalf("unexpected entry: %+v", loaded)
	}

	// Get nonexistent.
	if _, err := store.Get(ctx, "user-1", "nonexistent"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Other users cannot see it.
	if _, err := store.Get(ctx, "user-2", entry.ID); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	others, err := store.Recent(ctx, "user-2", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("expected no entries for other user, got %d", len(others))
	}
}

func TestMemoryStoreRecentNewestFirstAndCapped(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	testRecentOrdering(t, store)
}

func TestMemoryStoreRecentTiesNewestInsertFirst(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, "u", &domain.HistoryEntry{ID: id, CreatedAt: at}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	got, _ := store.Recent(ctx, "u", 0)
	if len(got) != 3 || got[0].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestOpenMemory(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	for _, endpoint := range []string{"", "memory://", "  memory://local "} {
		store, err := Open(context.Background(), endpoint, log)
		if err != nil {
			t.Fatalf("open %q: %v", endpoint, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("open %q: got %T, want *MemoryStore", endpoint, store)
		}
	}

	if _, err := Open(context.Background(), "firestore://project", log); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
