package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
	"github.com/StanleyChanH/vllm-mcp/pkg/content"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider/openaicompat"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o"
	defaultTimeout = 60 * time.Second
)

// OpenAIProvider implements provider.Provider for OpenAI-compatible vision
// backends over the Chat Completions protocol.
type OpenAIProvider struct {
	cfg       Config
	client    *openaicompat.Client
	caps      provider.Caps
	supported map[string]bool
}

// Ensure OpenAIProvider implements provider.Provider at compile time.
var _ provider.Provider = (*OpenAIProvider)(nil)

// New creates a new OpenAIProvider with the given configuration.
// The API key is required; everything else has defaults.
func New(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: APIKey is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaultModel
	}
	if len(cfg.SupportedModels) == 0 {
		cfg.SupportedModels = append([]string(nil), DefaultSupportedModels...)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	supported := make(map[string]bool, len(cfg.SupportedModels))
	for _, m := range cfg.SupportedModels {
		supported[m] = true
	}

	return &OpenAIProvider{
		cfg:    cfg,
		client: openaicompat.NewClient(providerName, cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		caps: provider.Caps{
			MaxImages:      5,
			MaxFiles:       5,
			MinTemperature: 0,
			MaxTemperature: 2,
			AllowedImageTypes: []string{
				"image/jpeg", "image/png", "image/gif", "image/webp",
			},
		},
		supported: supported,
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return providerName
}

// Kind returns the backend family.
func (p *OpenAIProvider) Kind() provider.Kind {
	return provider.KindOpenAI
}

// Info describes the provider for discovery listings.
func (p *OpenAIProvider) Info() api.ProviderInfo {
	return api.ProviderInfo{
		Name:            providerName,
		Type:            string(provider.KindOpenAI),
		DefaultModel:    p.cfg.DefaultModel,
		SupportedModels: append([]string(nil), p.cfg.SupportedModels...),
		MaxTokens:       p.cfg.MaxTokens,
		Temperature:     p.cfg.Temperature,
	}
}

// IsModelSupported reports whether the model is in the configured set.
func (p *OpenAIProvider) IsModelSupported(model string) bool {
	return p.supported[model]
}

// ValidateRequest checks the request against the OpenAI limits.
func (p *OpenAIProvider) ValidateRequest(req *api.MultimodalRequest) *api.Error {
	if err := p.caps.Validate(req, p.IsModelSupported); err != nil {
		err.Provider = providerName
		return err
	}
	return nil
}

// GenerateResponse resolves attachments, performs one Chat Completions
// call, and normalizes the result. File errors surface before any network
// traffic.
func (p *OpenAIProvider) GenerateResponse(ctx context.Context, req *api.MultimodalRequest) (*api.MultimodalResponse, error) {
	parts, cerr := content.Resolve(req, p.caps.AllowedImageTypes)
	if cerr != nil {
		cerr.Provider = providerName
		return nil, cerr
	}

	maxTokens := req.MaxTokens
	if maxTokens == nil {
		mt := p.cfg.MaxTokens
		maxTokens = &mt
	}
	temperature := req.Temperature
	if temperature == nil {
		tp := p.cfg.Temperature
		temperature = &tp
	}

	chatReq := openaicompat.BuildChatRequest(req.Model, req.SystemPrompt, parts, maxTokens, temperature)
	chatResp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	if len(chatResp.Choices) == 0 {
		return nil, api.NewProviderResponseError(providerName, "backend returned no choices")
	}
	choice := chatResp.Choices[0]

	model := chatResp.Model
	if model == "" {
		model = req.Model
	}
	resp := &api.MultimodalResponse{
		Content:      choice.Message.Content,
		Provider:     providerName,
		Model:        model,
		FinishReason: choice.FinishReason,
	}
	if chatResp.Usage != nil {
		resp.Usage = &api.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		}
	}
	return resp, nil
}

// Close releases provider resources.
func (p *OpenAIProvider) Close() error {
	return p.client.Close()
}
