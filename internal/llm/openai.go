package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/logger"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// DefaultOpenAIModel is used when no model is configured for the openai provider.
const DefaultOpenAIModel = "gpt-4o-mini"

// Compile-time interface check.
var _ domain.Completer = (*OpenAIClient)(nil)

// OpenAIClient implements domain.Completer with the openai-go SDK. The SDK's
// own retries are disabled; every request runs through the retry.Executor.
type OpenAIClient struct {
	client openai.Client
	model  string
	log    *logger.Logger
}

// NewOpenAIClient creates a chat-completions client. baseURL may be empty.
func NewOpenAIClient(apiKey, model, baseURL string, exec *retry.Executor, log *logger.Logger) *OpenAIClient {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			return exec.ExecuteWith(req.Context(), req, retry.SendFunc(next))
		}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
		log:    log,
	}
}

// Complete sends the system and user messages and returns the first choice.
func (o *OpenAIClient) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	o.log.Debug("llm: openai chat completion (model=%s)", o.model)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("llm: openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: %w: openai returned no choices", domain.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
