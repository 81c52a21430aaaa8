// Package llm provides the completion clients used to generate recipes:
// Gemini generateContent (default), an OpenAI-compatible chat client, and an
// offline mock for running without an API key.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// Defaults for the Gemini endpoint.
const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash-preview-09-2025"
)

// completionPath locates the completion text in a generateContent response.
const completionPath = "candidates.0.content.parts.0.text"

// ── Wire types ───────────────────────────────────────────────────

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

// payload is the request body sent to generateContent.
type payload struct {
	Contents          []content `json:"contents"`
	Tools             []tool    `json:"tools,omitempty"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

// ── Client ───────────────────────────────────────────────────────

// Compile-time interface check.
var _ domain.Completer = (*GeminiClient)(nil)

// GeminiOption configures the GeminiClient.
type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API root (tests point it at httptest).
func WithBaseURL(u string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithModel overrides the default model name.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) { c.model = model }
}

// WithSearchGrounding attaches the google_search tool to every request.
func WithSearchGrounding(on bool) GeminiOption {
	return func(c *GeminiClient) { c.grounding = on }
}

// GeminiClient talks to the generateContent endpoint through a retry.Executor.
type GeminiClient struct {
	baseURL   string
	apiKey    string
	model     string
	grounding bool
	exec      *retry.Executor
	log       *logger.Logger
}

// NewGeminiClient creates a Gemini client. All HTTP goes through exec.
func NewGeminiClient(apiKey string, exec *retry.Executor, log *logger.Logger, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		baseURL: DefaultGeminiBaseURL,
		apiKey:  apiKey,
		model:   DefaultGeminiModel,
		exec:    exec,
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends the prompt and returns the first candidate's text.
func (c *GeminiClient) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	body := payload{
		Contents: []content{{Parts: []part{{Text: prompt.User}}}},
	}
	if prompt.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: prompt.System}}}
	}
	if c.grounding {
		body.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.log.Debug("llm: POST %s (%d bytes)", endpoint, len(jsonData))

	resp, err := c.exec.Execute(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	text := gjson.GetBytes(respBody, completionPath)
	if !text.Exists() || text.Type != gjson.String {
		return "", fmt.Errorf("llm: %w: no text at %s", domain.ErrMalformedResponse, completionPath)
	}

	reply := text.String()
	c.log.Debug("llm: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
