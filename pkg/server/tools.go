package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
	"github.com/StanleyChanH/vllm-mcp/pkg/observability"
)

// Tool names exposed over MCP.
const (
	toolGenerate      = "generate_multimodal_response"
	toolListProviders = "list_available_providers"
	toolValidate      = "validate_multimodal_request"
)

// GenerateInput is the argument payload of generate_multimodal_response.
type GenerateInput struct {
	Model        string   `json:"model" jsonschema:"model name such as gpt-4o or qwen-vl-plus"`
	Prompt       string   `json:"prompt" jsonschema:"text prompt for the model"`
	ImageURLs    []string `json:"image_urls,omitempty" jsonschema:"remote image URLs passed to the backend unchanged"`
	FilePaths    []string `json:"file_paths,omitempty" jsonschema:"local attachments; images are inlined as data URLs and text files are embedded into the prompt"`
	SystemPrompt string   `json:"system_prompt,omitempty" jsonschema:"optional system prompt"`
	MaxTokens    *int     `json:"max_tokens,omitempty" jsonschema:"response token budget; defaults to the provider's configured value"`
	Temperature  *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature between 0 and 2; defaults to the provider's configured value"`
	Provider     string   `json:"provider,omitempty" jsonschema:"explicit provider name that bypasses model-prefix routing"`
}

// ValidateInput is the argument payload of validate_multimodal_request.
type ValidateInput struct {
	Model      string `json:"model" jsonschema:"model name to check"`
	ImageCount int    `json:"image_count,omitempty" jsonschema:"number of images the request would carry"`
	FileCount  int    `json:"file_count,omitempty" jsonschema:"number of files the request would carry"`
	Provider   string `json:"provider,omitempty" jsonschema:"explicit provider name that bypasses model-prefix routing"`
}

func (s *Server) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, struct{}, error) {
	start := time.Now()
	resp := s.generate(ctx, in)

	status := "ok"
	if resp.Error != nil {
		status = string(resp.Error.Type)
	}
	observability.ToolInvocationsTotal.WithLabelValues(toolGenerate, status).Inc()
	observability.ToolDuration.WithLabelValues(toolGenerate).Observe(time.Since(start).Seconds())

	return toolResult(resp, resp.Error != nil)
}

// generate runs one invocation end to end. Failures come back inside
// the response payload, and a panic is downgraded to internal_error:
// no invocation may surface as a protocol fault.
func (s *Server) generate(ctx context.Context, in GenerateInput) (resp *api.MultimodalResponse) {
	id := api.NewInvocationID()
	start := time.Now()
	logger := s.logger.With("invocation_id", id, "tool", toolGenerate, "model", in.Model)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("invocation panicked", "panic", fmt.Sprint(r))
			resp = errorResponse(api.NewInternalError(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	req := &api.MultimodalRequest{
		Model:        in.Model,
		Prompt:       in.Prompt,
		ImageURLs:    in.ImageURLs,
		FilePaths:    in.FilePaths,
		SystemPrompt: in.SystemPrompt,
		MaxTokens:    in.MaxTokens,
		Temperature:  in.Temperature,
		Provider:     in.Provider,
	}
	debug.Log("server", "invocation received",
		"invocation_id", id, "model", in.Model,
		"images", len(in.ImageURLs), "files", len(in.FilePaths),
		"prompt", debug.Truncate(in.Prompt, 120))

	p, rerr := s.registry.Resolve(req.Model, req.Provider)
	if rerr != nil {
		logger.Warn("resolution failed", "error_type", rerr.Type, "error", rerr.Message)
		return errorResponse(rerr)
	}
	logger = logger.With("provider", p.Name())

	if verr := p.ValidateRequest(req); verr != nil {
		logger.Warn("request rejected", "error_type", verr.Type, "error", verr.Message)
		return errorResponse(verr)
	}

	result, err := p.GenerateResponse(ctx, req)
	observability.ProviderLatency.WithLabelValues(p.Name(), req.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aerr := api.AsError(err)
		observability.ProviderRequestsTotal.WithLabelValues(p.Name(), req.Model, string(aerr.Type)).Inc()
		logger.Error("generation failed",
			"error_type", aerr.Type, "error", aerr.Message, "duration", time.Since(start))
		return errorResponse(aerr)
	}
	observability.ProviderRequestsTotal.WithLabelValues(p.Name(), req.Model, "ok").Inc()
	if result.Usage != nil {
		observability.ProviderTokensTotal.WithLabelValues(p.Name(), req.Model, "input").Add(float64(result.Usage.PromptTokens))
		observability.ProviderTokensTotal.WithLabelValues(p.Name(), req.Model, "output").Add(float64(result.Usage.CompletionTokens))
	}

	logger.Info("generation completed",
		"duration", time.Since(start),
		"finish_reason", result.FinishReason,
		"content_length", len(result.Content))
	return result
}

func (s *Server) handleListProviders(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
	start := time.Now()
	list := api.ProviderList{Providers: s.registry.List()}

	observability.ToolInvocationsTotal.WithLabelValues(toolListProviders, "ok").Inc()
	observability.ToolDuration.WithLabelValues(toolListProviders).Observe(time.Since(start).Seconds())

	return toolResult(list, false)
}

func (s *Server) handleValidate(_ context.Context, _ *mcp.CallToolRequest, in ValidateInput) (*mcp.CallToolResult, struct{}, error) {
	start := time.Now()
	result := s.validate(in)

	status := "ok"
	if !result.Valid {
		status = "invalid"
	}
	observability.ToolInvocationsTotal.WithLabelValues(toolValidate, status).Inc()
	observability.ToolDuration.WithLabelValues(toolValidate).Observe(time.Since(start).Seconds())

	// A negative verdict is an answer, not a tool failure.
	return toolResult(result, false)
}

// validate answers the pre-flight check with a synthetic request: the
// caller supplies counts, not contents, so placeholders stand in for
// the attachments and the filesystem is never touched.
func (s *Server) validate(in ValidateInput) api.ValidationResult {
	p, rerr := s.registry.Resolve(in.Model, in.Provider)
	if rerr != nil {
		return api.ValidationResult{Valid: false, Reason: rerr.Message, Provider: rerr.Provider}
	}

	if verr := p.ValidateRequest(syntheticRequest(in.Model, in.ImageCount, in.FileCount)); verr != nil {
		return api.ValidationResult{Valid: false, Reason: verr.Message, Provider: p.Name()}
	}
	return api.ValidationResult{Valid: true, Provider: p.Name()}
}

// syntheticRequest builds a placeholder request carrying the given
// attachment counts.
func syntheticRequest(model string, imageCount, fileCount int) *api.MultimodalRequest {
	req := &api.MultimodalRequest{Model: model, Prompt: "validation probe"}
	for i := 0; i < imageCount; i++ {
		req.ImageURLs = append(req.ImageURLs, "https://example.com/image.jpg")
	}
	for i := 0; i < fileCount; i++ {
		req.FilePaths = append(req.FilePaths, "placeholder.txt")
	}
	return req
}

// errorResponse wraps a typed error in a response payload.
func errorResponse(e *api.Error) *api.MultimodalResponse {
	return &api.MultimodalResponse{Provider: e.Provider, Error: e}
}

// toolResult serializes the payload as indented JSON in a single text
// content item. isError marks domain failures so text-only clients can
// branch without parsing the payload.
func toolResult(payload any, isError bool) (*mcp.CallToolResult, struct{}, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		data = fmt.Appendf(nil, "{\"error\":{\"type\":%q,\"message\":%q}}", api.ErrorTypeInternal, err.Error())
		isError = true
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: isError,
	}, struct{}{}, nil
}
