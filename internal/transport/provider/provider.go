// Package provider builds the assist completer selected by configuration.
package provider

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/sourcer/internal/config"
	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/transport/anthropic"
	"github.com/kailas-cloud/sourcer/internal/transport/langchain"
	"github.com/kailas-cloud/sourcer/internal/transport/openai"
)

// New creates the provider completer and returns the effective model name.
func New(cfg config.AssistConfig) (domain.Completer, string, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Provider {
	case config.ProviderAnthropic:
		c := anthropic.NewCompleter(&anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
		return c, c.Model(), nil
	case config.ProviderOpenAI:
		c := openai.NewCompleter(&openai.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Timeout:  timeout,
		})
		return c, c.Model(), nil
	case config.ProviderLangchain:
		c, err := langchain.NewCompleter(&langchain.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, "", fmt.Errorf("langchain completer: %w", err)
		}
		return c, cfg.Model, nil
	default:
		return nil, "", fmt.Errorf("unknown assist provider %q", cfg.Provider)
	}
}
