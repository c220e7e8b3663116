package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
)

const defaultTimeout = 60 * time.Second

// Client is a minimal Chat Completions client for OpenAI-compatible
// backends. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	provider   string
}

// NewClient creates a Client for the given backend. The provider label is
// carried into every mapped error so failures stay attributable after they
// cross the tool boundary. A zero timeout selects the 60s default.
func NewClient(provider, baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		provider:   provider,
	}
}

// CreateChatCompletion performs one non-streaming Chat Completions call.
// All failures return an *api.Error classified for the tool boundary.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to marshal chat request: %v", err))
	}

	url := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewInternalError(fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	debug.Log("providers", "chat completion request",
		"provider", c.provider, "url", url, "model", req.Model, "messages", len(req.Messages))
	debug.Raw("providers", "request", body)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(c.provider, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, MapHTTPError(c.provider, httpResp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewProviderResponseError(c.provider,
			fmt.Sprintf("failed to parse backend response: %v", err))
	}
	return &chatResp, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
