package openai

import "time"

// Config holds configuration for the OpenAI provider adapter.
type Config struct {
	// APIKey authenticates against the backend. Required.
	APIKey string

	// BaseURL overrides the API endpoint, for proxies or compatible
	// deployments. Defaults to https://api.openai.com.
	BaseURL string

	// DefaultModel is reported in discovery listings. Defaults to gpt-4o.
	DefaultModel string

	// SupportedModels restricts which models this provider serves.
	// Defaults to the built-in vision model list.
	SupportedModels []string

	// MaxTokens is the generation budget applied when a request does not
	// set max_tokens. Defaults to 4000.
	MaxTokens int

	// Temperature is applied when a request does not set temperature.
	Temperature float64

	// Timeout for individual HTTP requests. Defaults to 60s.
	Timeout time.Duration
}

// DefaultSupportedModels is the built-in vision model set.
var DefaultSupportedModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4-turbo",
	"gpt-4-vision-preview",
}

// DefaultConfig returns a Config with sensible defaults for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		MaxTokens:   4000,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}
