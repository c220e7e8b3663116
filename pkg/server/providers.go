package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/StanleyChanH/vllm-mcp/pkg/config"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider/dashscope"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider/openai"
)

// BuildRegistry constructs providers from the config and registers
// them in config order. Entries without an API key are skipped, so the
// default config works with whichever keys the environment supplies.
// The caller decides whether an empty registry is fatal.
func BuildRegistry(cfg *config.Config, logger *slog.Logger) (*provider.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := provider.NewRegistry()

	for i := range cfg.Providers {
		pc := &cfg.Providers[i]
		if pc.APIKey == "" {
			debug.Log("registry", "skipping provider without api key", "provider_type", pc.ProviderType)
			continue
		}

		p, err := buildProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("building provider %q: %w", pc.ProviderType, err)
		}
		if err := registry.Register(p); err != nil {
			return nil, err
		}
		logger.Info("registered provider",
			"provider", p.Name(),
			"default_model", p.Info().DefaultModel,
			"models", len(p.Info().SupportedModels))
	}

	return registry, nil
}

func buildProvider(pc *config.ProviderConfig) (provider.Provider, error) {
	switch pc.ProviderType {
	case "openai":
		return openai.New(openai.Config{
			APIKey:          pc.APIKey,
			BaseURL:         pc.BaseURL,
			DefaultModel:    pc.DefaultModel,
			SupportedModels: pc.SupportedModels,
			MaxTokens:       pc.MaxTokens,
			Temperature:     pc.Temperature,
			Timeout:         time.Duration(pc.Timeout) * time.Second,
		})
	case "dashscope":
		return dashscope.New(dashscope.Config{
			APIKey:          pc.APIKey,
			BaseURL:         pc.BaseURL,
			DefaultModel:    pc.DefaultModel,
			SupportedModels: pc.SupportedModels,
			MaxTokens:       pc.MaxTokens,
			Temperature:     pc.Temperature,
			Timeout:         time.Duration(pc.Timeout) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.ProviderType)
	}
}
