package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
)

const geminiReply = `{"candidates":[{"content":{"parts":[{"text":"Garlic Pasta\nIngredients:\n- Pasta"}]}}]}`

func newExecutor() *retry.Executor {
	return retry.New(nil, logger.Nop(), retry.WithUnit(time.Millisecond))
}

func TestGeminiCompleteSendsExpectedPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, geminiReply)
	}))
	defer srv.Close()

	c := NewGeminiClient("secret", newExecutor(), logger.Nop(), WithBaseURL(srv.URL+"/"), WithModel("test-model"))
	text, err := c.Complete(context.Background(), RecipePrompt(domain.GenerationRequest{Ingredients: "pasta, garlic", MaxMinutes: 20}))
	require.NoError(t, err)
	assert.Equal(t, "Garlic Pasta\nIngredients:\n- Pasta", text)

	contents := got["contents"].([]any)
	userText := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	assert.Contains(t, userText, "pasta, garlic")
	assert.Contains(t, userText, "20 minutes")

	sys := got["systemInstruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	assert.Equal(t, PromptChef, sys)
	assert.NotContains(t, got, "tools")
}

func TestGeminiCompleteSearchGrounding(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, geminiReply)
	}))
	defer srv.Close()

	c := NewGeminiClient("k", newExecutor(), logger.Nop(), WithBaseURL(srv.URL), WithSearchGrounding(true))
	_, err := c.Complete(context.Background(), domain.Prompt{User: "eggs"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tools":[{"google_search":{}}]`)
	assert.NotContains(t, string(raw), "systemInstruction")
}

func TestGeminiCompleteMalformedResponse(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"finishReason":"SAFETY"}]}`,
		`not json`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer srv.Close()

			c := NewGeminiClient("k", newExecutor(), logger.Nop(), WithBaseURL(srv.URL))
			_, err := c.Complete(context.Background(), domain.Prompt{User: "eggs"})
			require.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestGeminiCompleteRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, geminiReply)
	}))
	defer srv.Close()

	c := NewGeminiClient("k", newExecutor(), logger.Nop(), WithBaseURL(srv.URL))
	text, err := c.Complete(context.Background(), domain.Prompt{User: "eggs"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Garlic Pasta"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGeminiCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewGeminiClient("k", newExecutor(), logger.Nop(), WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), domain.Prompt{User: "eggs"})

	var herr *retry.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusForbidden, herr.StatusCode)
}

func TestMockClientDeterministic(t *testing.T) {
	p := RecipePrompt(domain.GenerationRequest{Ingredients: "rice", MaxMinutes: 15})
	a, err := MockClient{}.Complete(context.Background(), p)
	require.NoError(t, err)
	b, _ := MockClient{}.Complete(context.Background(), p)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "Pantry Skillet\n"))
	assert.Contains(t, a, "rice")
}

func TestNewCompleter(t *testing.T) {
	exec := newExecutor()
	log := logger.Nop()

	c, err := NewCompleter(Settings{}, exec, log)
	require.NoError(t, err)
	assert.IsType(t, MockClient{}, c)

	c, err = NewCompleter(Settings{APIKey: "k"}, exec, log)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	c, err = NewCompleter(Settings{APIKey: "k", Provider: "OpenAI"}, exec, log)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewCompleter(Settings{APIKey: "k", Provider: "llama"}, exec, log)
	require.Error(t, err)
}
