package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"postgen/internal/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// SDKTransport ходит к OpenAI-совместимому API Together через официальный SDK.
// Это основной путь; ключ передаётся на каждый запрос, а не хранится в клиенте.
type SDKTransport struct {
	client openai.Client
}

func NewSDKTransport(cfg config.TogetherConfig, httpClient *http.Client) *SDKTransport {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		// Повторы делает только Client: одна резервная попытка, не больше.
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &SDKTransport{client: openai.NewClient(opts...)}
}

func (t *SDKTransport) Name() string {
	return "sdk"
}

func (t *SDKTransport) Complete(ctx context.Context, call Call) (string, error) {
	if call.Model == "" {
		return "", ErrInvalidModel
	}
	if call.Credential == "" {
		return "", ErrMissingAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(call.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(call.SystemPrompt),
			openai.UserMessage(call.UserPrompt),
		},
		Temperature: openai.Float(call.Temperature),
		MaxTokens:   openai.Int(int64(call.MaxTokens)),
	}

	completion, err := t.client.Chat.Completions.New(ctx, params, option.WithAPIKey(call.Credential))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Status: apiErr.StatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}
