package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
	"github.com/StanleyChanH/vllm-mcp/pkg/content"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider"
)

const (
	providerName   = "dashscope"
	defaultBaseURL = "https://dashscope.aliyuncs.com"
	defaultModel   = "qwen-vl-plus"
	defaultTimeout = 60 * time.Second

	generationPath = "/api/v1/services/aigc/multimodal-generation/generation"
)

// DashscopeProvider implements provider.Provider for Dashscope multimodal
// backends.
type DashscopeProvider struct {
	cfg       Config
	client    *http.Client
	caps      provider.Caps
	supported map[string]bool
}

// Ensure DashscopeProvider implements provider.Provider at compile time.
var _ provider.Provider = (*DashscopeProvider)(nil)

// New creates a new DashscopeProvider with the given configuration.
// The API key is required; everything else has defaults.
func New(cfg Config) (*DashscopeProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("dashscope: APIKey is required")
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

	return &DashscopeProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		caps: provider.Caps{
			MaxImages:      10,
			MaxFiles:       10,
			MinTemperature: 0,
			MaxTemperature: 2,
			AllowedImageTypes: []string{
				"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp",
			},
		},
		supported: supported,
	}, nil
}

// Name returns the provider identifier.
func (p *DashscopeProvider) Name() string {
	return providerName
}

// Kind returns the backend family.
func (p *DashscopeProvider) Kind() provider.Kind {
	return provider.KindDashscope
}

// Info describes the provider for discovery listings.
func (p *DashscopeProvider) Info() api.ProviderInfo {
	return api.ProviderInfo{
		Name:            providerName,
		Type:            string(provider.KindDashscope),
		DefaultModel:    p.cfg.DefaultModel,
		SupportedModels: append([]string(nil), p.cfg.SupportedModels...),
		MaxTokens:       p.cfg.MaxTokens,
		Temperature:     p.cfg.Temperature,
	}
}

// IsModelSupported reports whether the model is in the configured set.
func (p *DashscopeProvider) IsModelSupported(model string) bool {
	return p.supported[model]
}

// ValidateRequest checks the request against the Dashscope limits.
func (p *DashscopeProvider) ValidateRequest(req *api.MultimodalRequest) *api.Error {
	if err := p.caps.Validate(req, p.IsModelSupported); err != nil {
		err.Provider = providerName
		return err
	}
	return nil
}

// GenerateResponse resolves attachments, performs one multimodal
// generation call, and normalizes the result. File errors surface before
// any network traffic.
func (p *DashscopeProvider) GenerateResponse(ctx context.Context, req *api.MultimodalRequest) (*api.MultimodalResponse, error) {
	parts, cerr := content.Resolve(req, p.caps.AllowedImageTypes)
	if cerr != nil {
		cerr.Provider = providerName
		return nil, cerr
	}

	genReq := p.buildRequest(req, parts)
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to marshal generation request: %v", err))
	}

	url := p.cfg.BaseURL + generationPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	debug.Log("providers", "dashscope generation request",
		"url", url, "model", req.Model, "parts", len(parts))
	debug.Raw("providers", "request", body)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var genResp generationResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&genResp); err != nil {
		return nil, api.NewProviderResponseError(providerName,
			fmt.Sprintf("failed to parse backend response: %v", err))
	}

	// Dashscope reports some failures inside a 200 body.
	if genResp.Code != "" {
		return nil, api.NewProviderResponseError(providerName,
			fmt.Sprintf("%s: %s", genResp.Code, genResp.Message))
	}

	return p.parseResponse(req.Model, &genResp)
}

// buildRequest assembles the Dashscope generation request. A non-empty
// system prompt becomes a leading system message with a single text item.
func (p *DashscopeProvider) buildRequest(req *api.MultimodalRequest, parts []content.Part) *generationRequest {
	var messages []generationMessage
	if req.SystemPrompt != "" {
		messages = append(messages, generationMessage{
			Role:    "system",
			Content: []generationItem{{Text: req.SystemPrompt}},
		})
	}

	items := make([]generationItem, 0, len(parts))
	for _, part := range parts {
		if part.Image != "" {
			items = append(items, generationItem{Image: part.Image})
			continue
		}
		items = append(items, generationItem{Text: part.Text})
	}
	messages = append(messages, generationMessage{Role: "user", Content: items})

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

	return &generationRequest{
		Model:      req.Model,
		Input:      generationInput{Messages: messages},
		Parameters: generationParameters{MaxTokens: maxTokens, Temperature: temperature},
	}
}

// parseResponse normalizes a Dashscope generation response. Text items of
// the first choice are joined by newlines.
func (p *DashscopeProvider) parseResponse(model string, genResp *generationResponse) (*api.MultimodalResponse, error) {
	if genResp.Output == nil || len(genResp.Output.Choices) == 0 {
		return nil, api.NewProviderResponseError(providerName, "backend returned no choices")
	}
	choice := genResp.Output.Choices[0]

	var texts []string
	for _, item := range choice.Message.Content {
		if item.Text != "" {
			texts = append(texts, item.Text)
		}
	}

	resp := &api.MultimodalResponse{
		Content:      strings.Join(texts, "\n"),
		Provider:     providerName,
		Model:        model,
		FinishReason: choice.FinishReason,
	}
	if genResp.Usage != nil {
		total := genResp.Usage.TotalTokens
		if total == 0 {
			total = genResp.Usage.InputTokens + genResp.Usage.OutputTokens
		}
		resp.Usage = &api.Usage{
			PromptTokens:     genResp.Usage.InputTokens,
			CompletionTokens: genResp.Usage.OutputTokens,
			TotalTokens:      total,
		}
	}
	return resp, nil
}

// Close releases provider resources.
func (p *DashscopeProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
