// Package llm constructs the hosted language model client the quiz chain calls.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mcq-generator/internal/config"
	"mcq-generator/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

// NewModel builds the model client for the configured provider. The client
// is created once per process and handed to the quiz chain explicitly.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	switch cfg.Provider {
	case config.ProviderGoogleAI:
		if cfg.APIKey == "" {
			return nil, errors.New("google ai api key is not set")
		}
		// A caller supplied client replaces the key option, so the key is added by the transport.
		googleClient, _, err := htransport.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI transport: %w", err)
		}
		googleClient.Timeout = cfg.Timeout
		model, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
			googleai.WithHTTPClient(googleClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI client: %w", err)
		}
		return model, nil
	case config.ProviderOpenAI:
		model, err := openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return model, nil
	case config.ProviderOllama:
		model, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

// NewModelOrUnavailable is NewModel for server startup: a client that cannot
// be built (typically a missing credential) does not stop the process, every
// generation request fails with the construction error instead.
func NewModelOrUnavailable(ctx context.Context, cfg config.LLMConfig) llms.Model {
	model, err := NewModel(ctx, cfg)
	if err != nil {
		logger.Get().Warn("LLM client unavailable, quiz generation will fail until configured",
			zap.String("provider", cfg.Provider),
			zap.Error(err))
		return Unavailable(err)
	}
	logger.Get().Info("LLM client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return model
}

// Unavailable returns a model whose every call fails with err.
func Unavailable(err error) llms.Model {
	return &unavailableModel{err: err}
}

type unavailableModel struct {
	err error
}

func (m *unavailableModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	return nil, m.err
}

func (m *unavailableModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", m.err
}
