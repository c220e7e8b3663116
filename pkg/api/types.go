package api

// MultimodalRequest is one generation request against a vision-capable
// backend. Model and Prompt are required; everything else is optional.
//
// Optional numeric parameters are pointers so that "not set" is
// distinguishable from an explicit zero. Unset parameters inherit the
// serving provider's configured defaults.
type MultimodalRequest struct {
	// Model selects the backend model (e.g. "gpt-4o", "qwen-vl-plus").
	Model string `json:"model"`

	// Prompt is the user text prompt.
	Prompt string `json:"prompt"`

	// ImageURLs lists image attachments, remote http(s) URLs or local
	// file paths, in the order they should appear in the message.
	ImageURLs []string `json:"image_urls,omitempty"`

	// FilePaths lists local file attachments. Image files are inlined as
	// data URLs and text files are embedded as text blocks.
	FilePaths []string `json:"file_paths,omitempty"`

	// SystemPrompt, when set, becomes the leading system message.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens bounds the generation length. Must be positive when set.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature is the sampling temperature, 0 to 2 when set.
	Temperature *float64 `json:"temperature,omitempty"`

	// Provider pins the request to a named provider, bypassing model-name
	// based resolution.
	Provider string `json:"provider,omitempty"`
}

// HasAttachments reports whether the request carries any image or file
// attachments.
func (r *MultimodalRequest) HasAttachments() bool {
	return len(r.ImageURLs) > 0 || len(r.FilePaths) > 0
}

// Usage holds the token accounting reported by a backend for one
// generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// MultimodalResponse is the normalized result of one generation call.
// On success Content carries the generated text and Error is nil; on
// failure Error is set and Content is empty. Provider and Model identify
// who served (or was asked to serve) the request.
type MultimodalResponse struct {
	Content      string `json:"content"`
	Usage        *Usage `json:"usage,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Error        *Error `json:"error,omitempty"`
}

// ValidationResult reports the outcome of a pre-flight request check.
// Reason is set only when Valid is false.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// ProviderInfo describes one configured provider for discovery.
type ProviderInfo struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	DefaultModel    string   `json:"default_model"`
	SupportedModels []string `json:"supported_models"`
	MaxTokens       int      `json:"max_tokens"`
	Temperature     float64  `json:"temperature"`
}

// ProviderList is the payload of the provider listing tool.
type ProviderList struct {
	Providers []ProviderInfo `json:"providers"`
}
