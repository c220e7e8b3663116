package dashscope

import "time"

// Config holds configuration for the Dashscope provider adapter.
type Config struct {
	// APIKey authenticates against Dashscope. Required.
	APIKey string

	// BaseURL overrides the API endpoint, mainly for testing.
	// Defaults to https://dashscope.aliyuncs.com.
	BaseURL string

	// DefaultModel is reported in discovery listings.
	// Defaults to qwen-vl-plus.
	DefaultModel string

	// SupportedModels restricts which models this provider serves.
	// Defaults to the built-in qwen vision model list.
	SupportedModels []string

	// MaxTokens is the generation budget applied when a request does not
	// set max_tokens. Defaults to 4000.
	MaxTokens int

	// Temperature is applied when a request does not set temperature.
	Temperature float64

	// Timeout for individual HTTP requests. Defaults to 60s.
	Timeout time.Duration
}

// DefaultSupportedModels is the built-in qwen vision model set.
var DefaultSupportedModels = []string{
	"qwen-vl-plus",
	"qwen-vl-max",
	"qwen-vl-chat",
	"qwen2-vl-7b-instruct",
	"qwen2-vl-72b-instruct",
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
