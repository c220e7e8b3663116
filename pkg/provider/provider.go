package provider

import (
	"context"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

// Provider abstracts a multimodal inference backend. The interface is
// protocol-agnostic: each adapter handles its own backend protocol
// (Chat Completions, Dashscope multimodal generation) internally.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "dashscope").
	Name() string

	// Kind returns the backend family used for model-prefix resolution.
	Kind() Kind

	// Info describes the provider for discovery listings.
	Info() api.ProviderInfo

	// IsModelSupported reports whether the model is in this provider's
	// supported set.
	IsModelSupported(model string) bool

	// ValidateRequest checks the request against the provider's limits
	// and returns the first violation, or nil if the request is
	// acceptable. It inspects counts and parameter ranges only and never
	// touches the filesystem or the network.
	ValidateRequest(req *api.MultimodalRequest) *api.Error

	// GenerateResponse performs one generation call against the backend.
	// Attachment resolution happens here, so file errors surface before
	// any network traffic.
	GenerateResponse(ctx context.Context, req *api.MultimodalRequest) (*api.MultimodalResponse, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}
