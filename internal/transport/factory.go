package transport

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Rorical/FolioChat/internal/config"
)

// NewFromConfig wires the exchanger selected by cfg.Backend into a
// RetryingTransport.
func NewFromConfig(cfg *config.Config, logger *zap.Logger, opts ...Option) (*RetryingTransport, error) {
	httpClient := NewHTTPClient(cfg.RequestTimeout())

	var ex Exchanger
	switch cfg.Backend {
	case config.BackendPortfolio, "":
		ex = NewHTTPExchanger(cfg.BaseURL(), httpClient)
	case config.BackendOpenAI:
		clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			clientConfig.BaseURL = cfg.OpenAI.BaseURL
		}
		clientConfig.HTTPClient = httpClient
		ex = NewOpenAIExchanger(openai.NewClientWithConfig(clientConfig), cfg.OpenAI.Model, cfg.OpenAI.SystemPrompt)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return NewRetryingTransport(ex, cfg.RequestTimeout(), logger, opts...), nil
}
