package llm

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// Provider names accepted by NewCompleter.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Settings selects and configures a completer.
type Settings struct {
	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	SearchGrounding bool
}

// Offline reports whether no API key is configured.
func (s Settings) Offline() bool {
	return strings.TrimSpace(s.APIKey) == ""
}

// NewCompleter builds the completer for s. Without an API key it returns the
// offline MockClient.
func NewCompleter(s Settings, exec *retry.Executor, log *logger.Logger) (domain.Completer, error) {
	if s.Offline() {
		log.Warn("llm: no API key configured, running in offline mode with canned recipes")
		return MockClient{}, nil
	}

	switch strings.ToLower(s.Provider) {
	case "", ProviderGemini:
		opts := []GeminiOption{WithSearchGrounding(s.SearchGrounding)}
		if s.Model != "" {
			opts = append(opts, WithModel(s.Model))
		}
		if s.BaseURL != "" {
			opts = append(opts, WithBaseURL(s.BaseURL))
		}
		log.Info("llm: using gemini provider")
		return NewGeminiClient(s.APIKey, exec, log, opts...), nil
	case ProviderOpenAI:
		log.Info("llm: using openai provider")
		return NewOpenAIClient(s.APIKey, s.Model, s.BaseURL, exec, log), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", s.Provider)
	}
}
