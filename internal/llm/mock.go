package llm

import (
	"context"
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
)

// Compile-time interface check.
var _ domain.Completer = MockClient{}

// MockClient is the offline completer used when no API key is configured.
// It never touches the network and always returns the same recipe for the
// same prompt.
type MockClient struct{}

// Complete returns a canned recipe that echoes the request under Notes.
func (MockClient) Complete(_ context.Context, prompt domain.Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString("Pantry Skillet\n")
	sb.WriteString("Prep Time: 10 minutes\n")
	sb.WriteString("Total Time: 25 minutes\n")
	sb.WriteString("Servings: 2\n\n")
	sb.WriteString("Ingredients:\n")
	sb.WriteString("- Whatever your pantry offers\n")
	sb.WriteString("- 1 tbsp oil\n")
	sb.WriteString("- Salt and pepper\n\n")
	sb.WriteString("Instructions:\n")
	sb.WriteString("1. Chop everything into bite-sized pieces.\n")
	sb.WriteString("2. Heat the oil in a large skillet over medium-high heat.\n")
	sb.WriteString("3. Cook the firmest ingredients first, then add the rest.\n")
	sb.WriteString("4. Season to taste and serve hot.\n\n")
	sb.WriteString("Notes:\n")
	sb.WriteString("Offline mode: no model was called.\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n")
	return sb.String(), nil
}
