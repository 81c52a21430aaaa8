package recipe

import (
	"time"
	"unicode/utf8"

	"github.com/hammamikhairi/aichef/internal/domain"
)

// previewLen caps the ingredients preview shown in history listings.
const previewLen = 50

// Summary is the listing view of a stored recipe.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Ingredients string    `json:"ingredients"`
	MaxMinutes  int       `json:"max_minutes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summarize derives the listing view of a history entry.
func Summarize(e domain.HistoryEntry) Summary {
	return Summary{
		ID:          e.ID,
		Title:       Parse(e.RawText).Title,
		Ingredients: Preview(e.Ingredients, previewLen),
		MaxMinutes:  e.MaxMinutes,
		CreatedAt:   e.CreatedAt,
	}
}

// Preview shortens s to n runes followed by "..." when it is longer.
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
