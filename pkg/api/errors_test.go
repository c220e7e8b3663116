package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	var _ error = &Error{}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"with param",
			&Error{Type: ErrorTypeValidation, Param: "temperature", Message: "must be between 0 and 2"},
			"validation_error: must be between 0 and 2 (param: temperature)",
		},
		{
			"without param",
			&Error{Type: ErrorTypeInternal, Message: "internal failure"},
			"internal_error: internal failure",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *Error
		wantType     ErrorType
		wantProvider string
		wantParam    string
	}{
		{"unknown provider", NewUnknownProviderError("acme"), ErrorTypeUnknownProvider, "acme", ""},
		{"unsupported model", NewUnsupportedModelError("llama-3"), ErrorTypeUnsupportedModel, "", "model"},
		{"validation", NewValidationError("max_tokens", "must be positive"), ErrorTypeValidation, "", "max_tokens"},
		{"file not found", NewFileNotFoundError("/tmp/missing.png"), ErrorTypeFileNotFound, "", "file_paths"},
		{"unreadable file", NewUnreadableFileError("/tmp/dir", errors.New("is a directory")), ErrorTypeUnreadableFile, "", "file_paths"},
		{"provider auth", NewProviderAuthError("openai", "invalid api key"), ErrorTypeProviderAuth, "openai", ""},
		{"provider rate limit", NewProviderRateLimitError("openai", "rate limit exceeded"), ErrorTypeProviderRateLimit, "openai", ""},
		{"provider network", NewProviderNetworkError("dashscope", errors.New("connection refused")), ErrorTypeProviderNetwork, "dashscope", ""},
		{"provider response", NewProviderResponseError("dashscope", "backend error (HTTP 500)"), ErrorTypeProviderResponse, "dashscope", ""},
		{"internal", NewInternalError("unexpected fault"), ErrorTypeInternal, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", tt.err.Provider, tt.wantProvider)
			}
			if tt.err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", tt.err.Param, tt.wantParam)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestErrorJSONOmitEmpty(t *testing.T) {
	err := NewInternalError("fail")
	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal: %v", marshalErr)
	}

	var m map[string]interface{}
	if unmarshalErr := json.Unmarshal(data, &m); unmarshalErr != nil {
		t.Fatalf("Unmarshal: %v", unmarshalErr)
	}

	if _, ok := m["provider"]; ok {
		t.Error("empty provider should be omitted from JSON")
	}
	if _, ok := m["param"]; ok {
		t.Error("empty param should be omitted from JSON")
	}
}

func TestAsError(t *testing.T) {
	if got := AsError(nil); got != nil {
		t.Errorf("AsError(nil) = %v, want nil", got)
	}

	typed := NewProviderAuthError("openai", "invalid api key")
	if got := AsError(typed); got != typed {
		t.Errorf("AsError(typed) = %v, want same value", got)
	}

	wrapped := fmt.Errorf("calling backend: %w", typed)
	if got := AsError(wrapped); got != typed {
		t.Errorf("AsError(wrapped) = %v, want unwrapped typed error", got)
	}

	plain := AsError(errors.New("boom"))
	if plain.Type != ErrorTypeInternal {
		t.Errorf("AsError(plain).Type = %q, want %q", plain.Type, ErrorTypeInternal)
	}
	if plain.Message != "boom" {
		t.Errorf("AsError(plain).Message = %q, want %q", plain.Message, "boom")
	}
}
