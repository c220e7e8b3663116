package dashscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func textGeneration(text string) generationResponse {
	return generationResponse{
		Output: &generationOutput{
			Choices: []generationChoice{
				{
					Message: generationMessage{
						Role:    "assistant",
						Content: []generationItem{{Text: text}},
					},
					FinishReason: "stop",
				},
			},
		},
		Usage:     &generationUsage{InputTokens: 30, OutputTokens: 8, TotalTokens: 38},
		RequestID: "req-abc",
	}
}

func newTestProvider(t *testing.T, backendURL string) *DashscopeProvider {
	t.Helper()
	cfg := DefaultConfig("ds-test")
	cfg.BaseURL = backendURL
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestDashscopeProvider_GenerateResponse_Text(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != generationPath {
			t.Errorf("path = %q, want %q", r.URL.Path, generationPath)
		}
		if r.Header.Get("Authorization") != "Bearer ds-test" {
			t.Errorf("auth header = %q, want bearer token", r.Header.Get("Authorization"))
		}

		var genReq generationRequest
		if err := json.NewDecoder(r.Body).Decode(&genReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if genReq.Model != "qwen-vl-plus" {
			t.Errorf("model = %q, want qwen-vl-plus", genReq.Model)
		}
		if len(genReq.Input.Messages) != 1 {
			t.Fatalf("len(messages) = %d, want 1", len(genReq.Input.Messages))
		}
		msg := genReq.Input.Messages[0]
		if msg.Role != "user" || len(msg.Content) != 2 {
			t.Errorf("user message = %+v, want 2 content items", msg)
		}
		if msg.Content[0].Text != "what do you see?" {
			t.Errorf("content[0].text = %q, want prompt", msg.Content[0].Text)
		}
		if msg.Content[1].Image != "https://example.com/cat.jpg" {
			t.Errorf("content[1].image = %q, want image URL", msg.Content[1].Image)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(textGeneration("A cat."))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	resp, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:     "qwen-vl-plus",
		Prompt:    "what do you see?",
		ImageURLs: []string{"https://example.com/cat.jpg"},
	})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}

	if resp.Content != "A cat." {
		t.Errorf("Content = %q, want backend text", resp.Content)
	}
	if resp.Provider != "dashscope" {
		t.Errorf("Provider = %q, want dashscope", resp.Provider)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", resp.FinishReason)
	}
	if resp.Usage == nil || resp.Usage.PromptTokens != 30 || resp.Usage.CompletionTokens != 8 || resp.Usage.TotalTokens != 38 {
		t.Errorf("Usage = %+v, want 30/8/38", resp.Usage)
	}
}

func TestDashscopeProvider_GenerateResponse_SystemPromptAndParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var genReq generationRequest
		if err := json.NewDecoder(r.Body).Decode(&genReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(genReq.Input.Messages) != 2 {
			t.Fatalf("len(messages) = %d, want system plus user", len(genReq.Input.Messages))
		}
		sys := genReq.Input.Messages[0]
		if sys.Role != "system" || len(sys.Content) != 1 || sys.Content[0].Text != "answer in french" {
			t.Errorf("system message = %+v", sys)
		}
		if genReq.Parameters.MaxTokens == nil || *genReq.Parameters.MaxTokens != 256 {
			t.Errorf("parameters.max_tokens = %v, want 256", genReq.Parameters.MaxTokens)
		}
		if genReq.Parameters.Temperature == nil || *genReq.Parameters.Temperature != 1.5 {
			t.Errorf("parameters.temperature = %v, want 1.5", genReq.Parameters.Temperature)
		}
		json.NewEncoder(w).Encode(textGeneration("Un chat."))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	if _, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:        "qwen-vl-plus",
		Prompt:       "what do you see?",
		SystemPrompt: "answer in french",
		MaxTokens:    intPtr(256),
		Temperature:  floatPtr(1.5),
	}); err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
}

func TestDashscopeProvider_GenerateResponse_JoinsTextItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := textGeneration("first")
		resp.Output.Choices[0].Message.Content = []generationItem{
			{Text: "first"}, {Text: "second"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	resp, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:  "qwen-vl-plus",
		Prompt: "hi",
	})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if resp.Content != "first\nsecond" {
		t.Errorf("Content = %q, want newline-joined text items", resp.Content)
	}
}

func TestDashscopeProvider_GenerateResponse_ErrorInOKBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generationResponse{
			Code:      "DataInspectionFailed",
			Message:   "Input data may contain inappropriate content.",
			RequestID: "req-x",
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	_, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:  "qwen-vl-plus",
		Prompt: "hi",
	})
	if err == nil {
		t.Fatal("GenerateResponse succeeded, want provider_response error")
	}
	apiErr := api.AsError(err)
	if apiErr.Type != api.ErrorTypeProviderResponse {
		t.Errorf("err.Type = %q, want %q", apiErr.Type, api.ErrorTypeProviderResponse)
	}
}

func TestDashscopeProvider_GenerateResponse_HTTPErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType api.ErrorType
	}{
		{
			"invalid key",
			http.StatusUnauthorized,
			`{"code":"InvalidApiKey","message":"Invalid API-key provided.","request_id":"r1"}`,
			api.ErrorTypeProviderAuth,
		},
		{
			"throttled",
			http.StatusTooManyRequests,
			`{"code":"Throttling.RateQuota","message":"Requests throttled.","request_id":"r2"}`,
			api.ErrorTypeProviderRateLimit,
		},
		{
			"server error",
			http.StatusInternalServerError,
			`{"code":"InternalError","message":"Something broke.","request_id":"r3"}`,
			api.ErrorTypeProviderResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := newTestProvider(t, srv.URL)

			_, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
				Model:  "qwen-vl-plus",
				Prompt: "hi",
			})
			if err == nil {
				t.Fatal("GenerateResponse succeeded, want error")
			}
			apiErr := api.AsError(err)
			if apiErr.Type != tt.wantType {
				t.Errorf("err.Type = %q, want %q", apiErr.Type, tt.wantType)
			}
			if apiErr.Provider != "dashscope" {
				t.Errorf("err.Provider = %q, want dashscope", apiErr.Provider)
			}
		})
	}
}

func TestDashscopeProvider_GenerateResponse_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := newTestProvider(t, srv.URL)

	_, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:  "qwen-vl-plus",
		Prompt: "hi",
	})
	if err == nil {
		t.Fatal("GenerateResponse succeeded, want network error")
	}
	if apiErr := api.AsError(err); apiErr.Type != api.ErrorTypeProviderNetwork {
		t.Errorf("err.Type = %q, want %q", apiErr.Type, api.ErrorTypeProviderNetwork)
	}
}

func TestDashscopeProvider_GenerateResponse_FileNotFoundBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(textGeneration("ok"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)

	_, err := p.GenerateResponse(context.Background(), &api.MultimodalRequest{
		Model:     "qwen-vl-plus",
		Prompt:    "read",
		FilePaths: []string{"/nonexistent/path/image.png"},
	})
	if err == nil {
		t.Fatal("GenerateResponse succeeded, want file_not_found error")
	}
	if apiErr := api.AsError(err); apiErr.Type != api.ErrorTypeFileNotFound {
		t.Errorf("err.Type = %q, want %q", apiErr.Type, api.ErrorTypeFileNotFound)
	}
	if hits.Load() != 0 {
		t.Errorf("backend hit %d times, want 0 for a file error", hits.Load())
	}
}

func TestDashscopeProvider_ValidateRequest(t *testing.T) {
	p := newTestProvider(t, "http://localhost:1")

	urls := make([]string, 11)
	for i := range urls {
		urls[i] = "https://example.com/a.jpg"
	}

	tests := []struct {
		name     string
		req      *api.MultimodalRequest
		wantType api.ErrorType
	}{
		{"valid", &api.MultimodalRequest{Model: "qwen-vl-plus", Prompt: "hi"}, ""},
		{"ten images ok", &api.MultimodalRequest{Model: "qwen-vl-plus", Prompt: "hi", ImageURLs: urls[:10]}, ""},
		{"eleven images rejected", &api.MultimodalRequest{Model: "qwen-vl-plus", Prompt: "hi", ImageURLs: urls}, api.ErrorTypeValidation},
		{"unsupported model", &api.MultimodalRequest{Model: "qwen-audio", Prompt: "hi"}, api.ErrorTypeUnsupportedModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := p.ValidateRequest(tt.req)
			if tt.wantType == "" {
				if verr != nil {
					t.Fatalf("ValidateRequest = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("ValidateRequest = nil, want %q", tt.wantType)
			}
			if verr.Type != tt.wantType {
				t.Errorf("err.Type = %q, want %q", verr.Type, tt.wantType)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	info := p.Info()
	if info.DefaultModel != "qwen-vl-plus" {
		t.Errorf("DefaultModel = %q, want qwen-vl-plus", info.DefaultModel)
	}
	if len(info.SupportedModels) != 5 {
		t.Errorf("len(SupportedModels) = %d, want 5", len(info.SupportedModels))
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without APIKey succeeded, want error")
	}
}
