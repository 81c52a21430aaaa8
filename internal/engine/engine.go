// Package engine runs recipe generation: it turns a request into a prompt,
// gets a completion, parses it and optionally records it in history.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/llm"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/recipe"
)

// Option configures the engine.
type Option func(*Engine)

// WithHistoryLimit sets how many entries History returns by default.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// Engine generates recipes. It depends only on interfaces and is fully
// testable with fakes. A nil store disables history.
type Engine struct {
	completer    domain.Completer
	store        domain.HistoryStore
	log          *logger.Logger
	historyLimit int
}

// New creates an engine with the given dependencies and options.
func New(completer domain.Completer, store domain.HistoryStore, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		completer:    completer,
		store:        store,
		log:          log,
		historyLimit: 10,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is a finished generation.
type Result struct {
	Raw    string
	Recipe domain.ParsedRecipe
	// Entry is set when the result was saved to history.
	Entry *domain.HistoryEntry
}

// Generate validates req, asks the completer and parses the reply. Nothing
// is persisted. An empty or whitespace-only completion is an error.
func (e *Engine) Generate(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e.log.Info("generating recipe (minutes=%d, ingredients=%q)", req.MaxMinutes, recipe.Preview(req.Ingredients, 50))

	raw, err := e.completer.Complete(ctx, llm.RecipePrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generating recipe: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("generating recipe: %w", domain.ErrEmptyCompletion)
	}

	parsed := recipe.Parse(raw, recipe.WithPlaceholder(recipe.GeneratedTitle))
	e.log.Debug("generated %q (%d body lines)", parsed.Title, len(parsed.Lines))
	return &Result{Raw: raw, Recipe: parsed}, nil
}

// GenerateAndSave generates a recipe and records it for userID. A failed
// save is logged and leaves Result.Entry nil; the recipe is still returned.
func (e *Engine) GenerateAndSave(ctx context.Context, userID string, req domain.GenerationRequest) (*Result, error) {
	res, err := e.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if e.store == nil {
		return res, nil
	}

	entry := &domain.HistoryEntry{
		RawText:     res.Raw,
		Ingredients: req.Ingredients,
		MaxMinutes:  req.MaxMinutes,
	}
	if err := e.store.Save(ctx, userID, entry); err != nil {
		e.log.Error("saving recipe to history: %v", err)
		return res, nil
	}
	res.Entry = entry
	return res, nil
}

// History returns the user's most recent entries, newest first. limit <= 0
// uses the engine default.
func (e *Engine) History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if e.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = e.historyLimit
	}
	entries, err := e.store.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// Show loads a stored entry and parses it for display.
func (e *Engine) Show(ctx context.Context, userID, id string) (*domain.HistoryEntry, domain.ParsedRecipe, error) {
	if e.store == nil {
		return nil, domain.ParsedRecipe{}, domain.ErrNotFound
	}
	entry, err := e.store.Get(ctx, userID, id)
	if err != nil {
		return nil, domain.ParsedRecipe{}, fmt.Errorf("loading history entry %s: %w", id, err)
	}
	return entry, recipe.Parse(entry.RawText), nil
}

// HistoryEnabled reports whether a store is configured.
func (e *Engine) HistoryEnabled() bool { return e.store != nil }
