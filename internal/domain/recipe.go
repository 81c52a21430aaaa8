// Package domain defines the core types and interfaces for the recipe generator.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Bounds for the cooking time budget, in minutes.
const (
	MinMinutes = 5
	MaxMinutes = 120
)

// GenerationRequest is what the user submits: pantry ingredients and a time
// budget. Built fresh for every submission and never changed afterwards.
type GenerationRequest struct {
	Ingredients string
	MaxMinutes  int
}

// Validate checks the request before it is sent.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Ingredients) == "" {
		return fmt.Errorf("%w: ingredients are required", ErrInvalidRequest)
	}
	if r.MaxMinutes < MinMinutes || r.MaxMinutes > MaxMinutes {
		return fmt.Errorf("%w: max minutes must be between %d and %d, got %d",
			ErrInvalidRequest, MinMinutes, MaxMinutes, r.MaxMinutes)
	}
	return nil
}

// ParsedRecipe is the structured view of a completion. The first line of the
// completion becomes Title, the rest becomes Body, and Lines carries the
// per-line classification of Body.
type ParsedRecipe struct {
	Title string       `json:"title"`
	Body  string       `json:"body"`
	Lines []LineRecord `json:"lines"`
}

// LineRecord is a single body line. IsHeader marks known section labels
// ("Ingredients:", "Notes:", ...) and is only presentation metadata.
type LineRecord struct {
	Text     string `json:"text"`
	IsHeader bool   `json:"is_header"`
}

// HistoryEntry is a generated recipe as stored for later retrieval.
// RawText is the full completion including the title line.
type HistoryEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RawText     string    `json:"raw_text"`
	Ingredients string    `json:"ingredients"`
	MaxMinutes  int       `json:"max_minutes"`
	CreatedAt   time.Time `json:"created_at"`
}
