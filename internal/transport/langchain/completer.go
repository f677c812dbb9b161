// Package langchain adapts langchaingo chat models to the assist completer contract.
// It is meant for local OpenAI-compatible endpoints (llama.cpp, vLLM, Ollama).
package langchain

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/kailas-cloud/sourcer/internal/domain"
)

const providerName = "langchain"

// Config holds the endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Completer generates answers through a langchaingo model.
type Completer struct {
	model llms.Model
}

// NewCompleter creates a completer backed by langchaingo's OpenAI-compatible client.
// An empty API key is sent as "none" for services without authentication.
func NewCompleter(cfg *Config) (*Completer, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain client: %w", err)
	}
	return &Completer{model: client}, nil
}

// NewCompleterWithModel wraps an existing langchaingo model.
func NewCompleterWithModel(model llms.Model) *Completer {
	return &Completer{model: model}
}

// Complete sends one system + human exchange.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	content := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.System)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.User)},
	})

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Completion{}, fmt.Errorf("generate content: %w", ctx.Err())
		}
		return domain.Completion{}, domain.NewProviderError(providerName, 0, err.Error())
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.Completion{}, domain.NewProviderError(providerName, 0, "no choices returned")
	}

	choice := resp.Choices[0]
	out := domain.Completion{
		Text:             choice.Content,
		PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
		TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
	}
	if out.TotalTokens == 0 {
		out.TotalTokens = out.PromptTokens + out.CompletionTokens
	}
	return out, nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
