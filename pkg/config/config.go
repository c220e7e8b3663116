// Package config provides unified configuration for the vllm-mcp gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. JSON or YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (VLLM_MCP_*, OPENAI_*, DASHSCOPE_*)
//  4. ${VAR} expansion in credential fields
//  5. Validation
package config

import (
	"net"
	"strconv"
)

// Config holds all configuration for the vllm-mcp gateway.
type Config struct {
	Host           string           `koanf:"host"`            // default: "localhost"
	Port           int              `koanf:"port"`            // default: 8080
	Transport      string           `koanf:"transport"`       // "stdio", "http", or "sse", default: "stdio"
	LogLevel       string           `koanf:"log_level"`       // default: "INFO"
	MaxConnections int              `koanf:"max_connections"` // default: 100
	RequestTimeout int              `koanf:"request_timeout"` // seconds, default: 120
	Providers      []ProviderConfig `koanf:"providers"`
}

// ProviderConfig describes a single multimodal backend.
type ProviderConfig struct {
	ProviderType    string   `koanf:"provider_type"`    // "openai" or "dashscope"
	APIKey          string   `koanf:"api_key"`          // supports ${VAR} expansion
	BaseURL         string   `koanf:"base_url"`         // empty uses the backend's default endpoint
	DefaultModel    string   `koanf:"default_model"`
	SupportedModels []string `koanf:"supported_models"`
	MaxTokens       int      `koanf:"max_tokens"`  // default: 4000
	Temperature     float64  `koanf:"temperature"` // default: 0.7
	Timeout         int      `koanf:"timeout"`     // seconds, default: 60
}

// Defaults returns a Config with all default values filled in.
// Both provider entries are present with empty API keys; entries without
// a key are skipped when the registry is built.
func Defaults() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		Transport:      "stdio",
		LogLevel:       "INFO",
		MaxConnections: 100,
		RequestTimeout: 120,
		Providers: []ProviderConfig{
			defaultProviderConfig("openai"),
			defaultProviderConfig("dashscope"),
		},
	}
}

// defaultProviderConfig returns the built-in entry for a provider type.
func defaultProviderConfig(providerType string) ProviderConfig {
	pc := ProviderConfig{
		ProviderType: providerType,
		MaxTokens:    4000,
		Temperature:  0.7,
		Timeout:      60,
	}
	switch providerType {
	case "openai":
		pc.DefaultModel = "gpt-4o"
		pc.SupportedModels = []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-4-vision-preview"}
	case "dashscope":
		pc.DefaultModel = "qwen-vl-plus"
		pc.SupportedModels = []string{"qwen-vl-plus", "qwen-vl-max", "qwen-vl-chat", "qwen2-vl-7b-instruct", "qwen2-vl-72b-instruct"}
	}
	return pc
}

// Addr returns the host:port listen address for the HTTP transports.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Provider returns the entry with the given provider type, or nil
// if the configuration has no such entry.
func (c *Config) Provider(providerType string) *ProviderConfig {
	for i := range c.Providers {
		if c.Providers[i].ProviderType == providerType {
			return &c.Providers[i]
		}
	}
	return nil
}
