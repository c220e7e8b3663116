package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
//
// Empty api_key fields are legal here: entries without a key are skipped
// when the registry is built, and only a registry with zero providers is
// fatal at startup.
func (c *Config) Validate() error {
	var errs []error

	// transport must be a known value.
	switch c.Transport {
	case "stdio", "http", "sse":
		// valid
	default:
		errs = append(errs, fmt.Errorf("transport must be \"stdio\", \"http\", or \"sse\", got %q", c.Transport))
	}

	// port must be a valid TCP port.
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in 1..65535, got %d", c.Port))
	}

	if c.MaxConnections <= 0 {
		errs = append(errs, fmt.Errorf("max_connections must be > 0, got %d", c.MaxConnections))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be > 0, got %d", c.RequestTimeout))
	}

	// log_level must be a known value, case-insensitive.
	switch strings.ToUpper(c.LogLevel) {
	case "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of TRACE, DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("providers must not be empty"))
	}

	for i := range c.Providers {
		pc := &c.Providers[i]

		switch pc.ProviderType {
		case "openai", "dashscope":
			// valid
		default:
			errs = append(errs, fmt.Errorf("providers[%d].provider_type must be \"openai\" or \"dashscope\", got %q", i, pc.ProviderType))
		}
		if pc.MaxTokens <= 0 {
			errs = append(errs, fmt.Errorf("providers[%d].max_tokens must be > 0, got %d", i, pc.MaxTokens))
		}
		if pc.Temperature < 0 || pc.Temperature > 2 {
			errs = append(errs, fmt.Errorf("providers[%d].temperature must be in [0, 2], got %v", i, pc.Temperature))
		}
		if pc.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("providers[%d].timeout must be > 0, got %d", i, pc.Timeout))
		}
	}

	return errors.Join(errs...)
}
