// Command mock-backend runs deterministic OpenAI-compatible and
// Dashscope backends for local development and demos. Point the
// gateway at it:
//
//	OPENAI_BASE_URL=http://localhost:9090 OPENAI_API_KEY=mock \
//	DASHSCOPE_BASE_URL=http://localhost:9090 DASHSCOPE_API_KEY=mock \
//	vllm-mcp --transport http
//
// Responses describe the request content, so multimodal plumbing can be
// checked end to end without real API keys. Prompts containing
// "trigger auth error" or "trigger rate limit" produce 401 and 429
// responses to exercise the gateway's error mapping.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /api/v1/services/aigc/multimodal-generation/generation", handleDashscopeGeneration)
	mux.HandleFunc("GET /v1/models", handleModels)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- OpenAI-compatible wire types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   usage        `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Dashscope wire types ---

type dashscopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dashscopeMessage `json:"messages"`
	} `json:"input"`
}

type dashscopeMessage struct {
	Role    string          `json:"role"`
	Content []dashscopeItem `json:"content"`
}

type dashscopeItem struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type dashscopeResponse struct {
	Output    dashscopeOutput `json:"output"`
	Usage     dashscopeUsage  `json:"usage"`
	RequestID string          `json:"request_id"`
}

type dashscopeOutput struct {
	Choices []dashscopeChoice `json:"choices"`
}

type dashscopeChoice struct {
	Message      dashscopeMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

type dashscopeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// --- Handlers ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized,
			`{"error":{"message":"missing or invalid api key","type":"invalid_request_error","code":"invalid_api_key"}}`)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest,
			`{"error":{"message":"invalid request body","type":"invalid_request_error"}}`)
		return
	}

	prompt, images := chatContent(&req)
	switch trigger(prompt) {
	case "auth":
		writeJSON(w, http.StatusUnauthorized,
			`{"error":{"message":"api key revoked","type":"invalid_request_error","code":"invalid_api_key"}}`)
		return
	case "ratelimit":
		writeJSON(w, http.StatusTooManyRequests,
			`{"error":{"message":"rate limit reached, try again later","type":"rate_limit_error"}}`)
		return
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}
	text := describe(prompt, images, hasSystemMessage(req.Messages))

	resp := chatResponse{
		ID:      "chatcmpl-mock",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chatChoice{{
			Index:        0,
			Message:      chatMsg{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
		Usage: tokenUsage(prompt, text),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func handleDashscopeGeneration(w http.ResponseWriter, r *http.Request) {
	if !authorized(r) {
		writeJSON(w, http.StatusUnauthorized,
			`{"code":"InvalidApiKey","message":"missing or invalid api key","request_id":"mock-req-auth"}`)
		return
	}

	var req dashscopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest,
			`{"code":"InvalidParameter","message":"invalid request body","request_id":"mock-req-bad"}`)
		return
	}

	prompt, images := dashscopeContent(&req)
	switch trigger(prompt) {
	case "auth":
		writeJSON(w, http.StatusUnauthorized,
			`{"code":"InvalidApiKey","message":"api key revoked","request_id":"mock-req-auth"}`)
		return
	case "ratelimit":
		writeJSON(w, http.StatusTooManyRequests,
			`{"code":"Throttling.RateQuota","message":"requests throttled, try again later","request_id":"mock-req-throttle"}`)
		return
	}

	var system bool
	for _, msg := range req.Input.Messages {
		if msg.Role == "system" {
			system = true
		}
	}
	text := describe(prompt, images, system)
	u := tokenUsage(prompt, text)

	resp := dashscopeResponse{
		Output: dashscopeOutput{
			Choices: []dashscopeChoice{{
				Message: dashscopeMessage{
					Role:    "assistant",
					Content: []dashscopeItem{{Text: text}},
				},
				FinishReason: "stop",
			}},
		},
		Usage: dashscopeUsage{
			InputTokens:  u.PromptTokens,
			OutputTokens: u.CompletionTokens,
			TotalTokens:  u.TotalTokens,
		},
		RequestID: "mock-req-1",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func handleModels(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "gpt-4o", "object": "model", "owned_by": "mock"},
			{"id": "qwen-vl-plus", "object": "model", "owned_by": "mock"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// --- Content classification ---

// describe builds the deterministic reply text from what the request
// actually carried.
func describe(prompt string, images int, system bool) string {
	var b strings.Builder
	switch images {
	case 0:
		b.WriteString("No images attached.")
	case 1:
		b.WriteString("I can see 1 image: a red square on a white background.")
	default:
		fmt.Fprintf(&b, "I can see %d images; the first is a red square on a white background.", images)
	}
	if prompt != "" {
		fmt.Fprintf(&b, " You asked: %q.", prompt)
	}
	if system {
		b.WriteString(" (System instructions were applied.)")
	}
	return b.String()
}

// trigger classifies prompts that request a simulated failure.
func trigger(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "trigger auth error"):
		return "auth"
	case strings.Contains(p, "trigger rate limit"):
		return "ratelimit"
	}
	return ""
}

func authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && len(auth) > len("Bearer ")
}

// chatContent extracts the last user prompt and counts image parts in a
// Chat Completions request. User content can be a plain string or a
// multimodal part array.
func chatContent(req *chatRequest) (string, int) {
	prompt := ""
	images := 0
	for _, msg := range req.Messages {
		if msg.Role != "user" {
			continue
		}
		switch v := msg.Content.(type) {
		case string:
			prompt = v
		case []any:
			for _, part := range v {
				m, ok := part.(map[string]any)
				if !ok {
					continue
				}
				switch m["type"] {
				case "text":
					if t, ok := m["text"].(string); ok {
						prompt = t
					}
				case "image_url":
					images++
				}
			}
		}
	}
	return prompt, images
}

// dashscopeContent extracts the last user text item and counts image
// items in a Dashscope request.
func dashscopeContent(req *dashscopeRequest) (string, int) {
	prompt := ""
	images := 0
	for _, msg := range req.Input.Messages {
		if msg.Role != "user" {
			continue
		}
		for _, item := range msg.Content {
			if item.Text != "" {
				prompt = item.Text
			}
			if item.Image != "" {
				images++
			}
		}
	}
	return prompt, images
}

func hasSystemMessage(messages []chatMessage) bool {
	for _, msg := range messages {
		if msg.Role == "system" {
			return true
		}
	}
	return false
}

// tokenUsage derives deterministic token counts from content lengths.
func tokenUsage(prompt, completion string) usage {
	p := len(prompt)/4 + 1
	c := len(completion)/4 + 1
	return usage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintln(w, body)
}
