package domain

import "context"

// Completer turns a prompt into free text. Implementations can call Gemini,
// an OpenAI-compatible endpoint, or return canned text in offline mode.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is the pair of instructions sent to a Completer.
type Prompt struct {
	System string
	User   string
}

// HistoryStore persists generated recipes per user. Implementations can be
// in-memory, Redis, Postgres, or any other backend.
type HistoryStore interface {
	// Save stores the entry. An empty ID or zero CreatedAt is filled in.
	Save(ctx context.Context, userID string, entry *HistoryEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	// Get returns a single entry or ErrNotFound.
	Get(ctx context.Context, userID, id string) (*HistoryEntry, error)
	Close() error
}
