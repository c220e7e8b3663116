package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	kfile "github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. JSON/YAML config file (explicit path, VLLM_MCP_CONFIG env, ./config.json, ./config.yaml)
//  3. Environment variable overrides (VLLM_MCP_*, OPENAI_*, DASHSCOPE_*)
//  4. ${VAR} expansion in api_key and base_url fields
//  5. Validation
//
// A .env file in the working directory is loaded into the process
// environment first, if present.
func Load(configPath string) (*Config, error) {
	// Populate the environment from .env before anything reads it.
	_ = godotenv.Load()

	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadConfigFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)
	resolveEnvVars(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
//  1. Explicit configPath argument
//  2. VLLM_MCP_CONFIG environment variable
//  3. ./config.json in the current directory
//  4. ./config.yaml in the current directory
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check VLLM_MCP_CONFIG env var.
	if envPath := os.Getenv("VLLM_MCP_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.json",
		"config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadConfigFile reads and merges a JSON or YAML file into the Config.
// Fields not present in the file retain their current (default) values.
func loadConfigFile(path string, cfg *Config) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parser = json.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return fmt.Errorf("unsupported config file extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}

	k := koanf.New(".")
	if err := k.Load(kfile.Provider(path), parser); err != nil {
		return err
	}

	// A providers list in the file replaces the built-in entries
	// wholesale. Each entry still starts from the per-type defaults so
	// omitted fields keep their documented values.
	if k.Exists("providers") {
		var providers []ProviderConfig
		for _, entry := range k.Slices("providers") {
			pc := defaultProviderConfig(entry.String("provider_type"))
			if err := entry.Unmarshal("", &pc); err != nil {
				return fmt.Errorf("parsing provider entry: %w", err)
			}
			providers = append(providers, pc)
		}
		cfg.Providers = providers
		k.Delete("providers")
	}

	return k.Unmarshal("", cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// Env vars win over values loaded from the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VLLM_MCP_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("VLLM_MCP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("VLLM_MCP_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("VLLM_MCP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	applyProviderEnvOverrides(cfg, "openai", "OPENAI")
	applyProviderEnvOverrides(cfg, "dashscope", "DASHSCOPE")
}

// applyProviderEnvOverrides maps PREFIX_API_KEY, PREFIX_BASE_URL,
// PREFIX_DEFAULT_MODEL and PREFIX_SUPPORTED_MODELS onto the matching
// provider entry. The entry is recreated from defaults when the config
// file dropped it.
func applyProviderEnvOverrides(cfg *Config, providerType, prefix string) {
	apiKey := os.Getenv(prefix + "_API_KEY")
	baseURL := os.Getenv(prefix + "_BASE_URL")
	defaultModel := os.Getenv(prefix + "_DEFAULT_MODEL")
	supportedModels := os.Getenv(prefix + "_SUPPORTED_MODELS")
	if apiKey == "" && baseURL == "" && defaultModel == "" && supportedModels == "" {
		return
	}

	pc := cfg.Provider(providerType)
	if pc == nil {
		cfg.Providers = append(cfg.Providers, defaultProviderConfig(providerType))
		pc = &cfg.Providers[len(cfg.Providers)-1]
	}

	if apiKey != "" {
		pc.APIKey = apiKey
	}
	if baseURL != "" {
		pc.BaseURL = baseURL
	}
	if defaultModel != "" {
		pc.DefaultModel = defaultModel
	}
	if supportedModels != "" {
		pc.SupportedModels = splitModels(supportedModels)
	}
}

// splitModels splits a comma-separated model list, trimming whitespace
// and dropping empty entries.
func splitModels(s string) []string {
	var models []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// resolveEnvVars expands ${VAR} references in credential fields so
// config files can point at the environment instead of embedding keys.
func resolveEnvVars(cfg *Config) {
	for i := range cfg.Providers {
		cfg.Providers[i].APIKey = resolveEnvString(cfg.Providers[i].APIKey)
		cfg.Providers[i].BaseURL = resolveEnvString(cfg.Providers[i].BaseURL)
	}
}

// resolveEnvString replaces ${VAR} with the variable's value, leaving
// the reference untouched when the variable is unset.
func resolveEnvString(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}
