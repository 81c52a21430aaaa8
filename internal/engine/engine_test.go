package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/recipe"
	"github.com/hammamikhairi/aichef/internal/storage"
)

// fakeCompleter returns a fixed reply and records the prompts it saw.
type fakeCompleter struct {
	reply   string
	err     error
	prompts []domain.Prompt
}

func (f *fakeCompleter) Complete(_ context.Context, p domain.Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.reply, f.err
}

// failingStore rejects every save.
type failingStore struct{ domain.HistoryStore }

func (failingStore) Save(context.Context, string, *domain.HistoryEntry) error {
	return errors.New("disk full")
}

const garlicPasta = "Garlic Pasta\nIngredients:\n- pasta\nInstructions:\n1. Boil"

func newTestEngine(c domain.Completer, store domain.HistoryStore) *Engine {
	return New(c, store, logger.Nop())
}

func TestGenerate(t *testing.T) {
	fc := &fakeCompleter{reply: garlicPasta}
	e := newTestEngine(fc, nil)

	res, err := e.Generate(context.Background(), domain.GenerationRequest{Ingredients: "pasta, garlic", MaxMinutes: 20})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Recipe.Title != "Garlic Pasta" {
		t.Fatalf("expected title Garlic Pasta, got %q", res.Recipe.Title)
	}
	if res.Raw != garlicPasta {
		t.Fatalf("raw text not preserved: %q", res.Raw)
	}
	if res.Entry != nil {
		t.Fatal("Generate must not persist")
	}
	if len(fc.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(fc.prompts))
	}
	if !strings.Contains(fc.prompts[0].User, "pasta, garlic") || !strings.Contains(fc.prompts[0].User, "20 minutes") {
		t.Fatalf("prompt missing request details: %q", fc.prompts[0].User)
	}
}

func TestGenerateInvalidRequestSkipsCompleter(t *testing.T) {
	fc := &fakeCompleter{reply: garlicPasta}
	e := newTestEngine(fc, nil)

	for _, req := range []domain.GenerationRequest{
		{Ingredients: "  ", MaxMinutes: 30},
		{Ingredients: "eggs", MaxMinutes: 4},
		{Ingredients: "eggs", MaxMinutes: 121},
	} {
		_, err := e.Generate(context.Background(), req)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("%+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
	if len(fc.prompts) != 0 {
		t.Fatalf("completer called for invalid input")
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	store := storage.NewMemoryStore(logger.Nop())
	e := newTestEngine(&fakeCompleter{reply: " \n\t"}, store)

	_, err := e.GenerateAndSave(context.Background(), "u1", domain.GenerationRequest{Ingredients: "eggs", MaxMinutes: 10})
	if !errors.Is(err, domain.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
	got, _ := store.Recent(context.Background(), "u1", 10)
	if len(got) != 0 {
		t.Fatalf("empty completion was persisted")
	}
}

func TestGenerateFirstLineBlankUsesGeneratedPlaceholder(t *testing.T) {
	e := newTestEngine(&fakeCompleter{reply: "\nIngredients:\n- eggs"}, nil)
	res, err := e.Generate(context.Background(), domain.GenerationRequest{Ingredients: "eggs", MaxMinutes: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Recipe.Title != recipe.GeneratedTitle {
		t.Fatalf("expected %q, got %q", recipe.GeneratedTitle, res.Recipe.Title)
	}
}

func TestGenerateCompleterError(t *testing.T) {
	e := newTestEngine(&fakeCompleter{err: domain.ErrRateLimited}, nil)
	_, err := e.Generate(context.Background(), domain.GenerationRequest{Ingredients: "eggs", MaxMinutes: 10})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected wrapped ErrRateLimited, got %v", err)
	}
}

func TestGenerateAndSaveThenHistoryAndShow(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(logger.Nop())
	e := newTestEngine(&fakeCompleter{reply: garlicPasta}, store)

	res, err := e.GenerateAndSave(ctx, "u1", domain.GenerationRequest{Ingredients: "pasta", MaxMinutes: 15})
	if err != nil {
		t.Fatal(err)
	}
	if res.Entry == nil || res.Entry.ID == "" {
		t.Fatalf("expected saved entry with ID, got %+v", res.Entry)
	}

	hist, err := e.History(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].RawText != garlicPasta || hist[0].MaxMinutes != 15 {
		t.Fatalf("unexpected history: %+v", hist)
	}

	entry, parsed, err := e.Show(ctx, "u1", res.Entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Ingredients != "pasta" || parsed.Title != "Garlic Pasta" {
		t.Fatalf("unexpected show result: %+v %+v", entry, parsed)
	}

	if _, _, err := e.Show(ctx, "u2", res.Entry.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("other user must not see entry, got %v", err)
	}
}

func TestGenerateAndSaveStoreFailureStillReturnsRecipe(t *testing.T) {
	e := newTestEngine(&fakeCompleter{reply: garlicPasta}, failingStore{})
	res, err := e.GenerateAndSave(context.Background(), "u1", domain.GenerationRequest{Ingredients: "pasta", MaxMinutes: 15})
	if err != nil {
		t.Fatalf("save failure should not fail generation: %v", err)
	}
	if res.Entry != nil || res.Recipe.Title != "Garlic Pasta" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	e := newTestEngine(&fakeCompleter{}, nil)
	if e.HistoryEnabled() {
		t.Fatal("history should be disabled")
	}
	hist, err := e.History(context.Background(), "u1", 5)
	if err != nil || hist != nil {
		t.Fatalf("expected empty history, got %v %v", hist, err)
	}
	if _, _, err := e.Show(context.Background(), "u1", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRunPendingAndLoadHistory(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(logger.Nop())
	e := newTestEngine(&fakeCompleter{reply: garlicPasta}, store)
	req := domain.GenerationRequest{Ingredients: "pasta", MaxMinutes: 15}

	act := e.RunPending(ctx, "u1", req, true)
	ok, isOK := act.(GenerateSucceeded)
	if !isOK || ok.Entry == nil {
		t.Fatalf("expected saved GenerateSucceeded, got %#v", act)
	}

	loaded, _ := e.LoadHistory(ctx, "u1").(HistoryLoaded)
	if len(loaded.Entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(loaded.Entries))
	}

	failing := newTestEngine(&fakeCompleter{err: domain.ErrTransient}, store)
	if _, isFail := failing.RunPending(ctx, "u1", req, true).(GenerateFailed); !isFail {
		t.Fatal("expected GenerateFailed")
	}
}
