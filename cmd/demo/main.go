// Command demo spawns the vllm-mcp gateway over stdio and walks the
// tool surface end to end: tool discovery, provider listing, request
// validation, and generation, including an error path.
//
// Build the binaries and start the mock backend first:
//
//	go build -o bin/vllm-mcp ./cmd/vllm-mcp
//	go build -o bin/mock-backend ./cmd/mock-backend
//	bin/mock-backend &
//	OPENAI_BASE_URL=http://localhost:9090 OPENAI_API_KEY=mock \
//	DASHSCOPE_BASE_URL=http://localhost:9090 DASHSCOPE_API_KEY=mock \
//	go run ./cmd/demo [path/to/vllm-mcp]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

func main() {
	bin := "./bin/vllm-mcp"
	if len(os.Args) > 1 {
		bin = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("=== vllm-mcp gateway demo ===")
	fmt.Println()

	// 1. Spawn the gateway as an MCP stdio server.
	cmd := exec.Command(bin, "--transport", "stdio", "--log-level", "ERROR")
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{Name: "vllm-mcp-demo", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", bin, err)
		os.Exit(1)
	}
	defer session.Close()
	fmt.Printf("[1] Connected to %s over stdio\n", bin)

	// 2. Discover the tool surface.
	fmt.Println("\n[2] Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			fail("listing tools", err)
		}
		fmt.Printf("    %-30s %s\n", tool.Name, tool.Description)
	}

	// 3. List the configured providers.
	payload := call(ctx, session, "list_available_providers", nil)
	var providers api.ProviderList
	mustDecode(payload, &providers)
	fmt.Println("\n[3] Providers:")
	for _, p := range providers.Providers {
		fmt.Printf("    %-10s default=%s models=%v max_tokens=%d\n",
			p.Name, p.DefaultModel, p.SupportedModels, p.MaxTokens)
	}

	// 4. Validate a request that fits the caps.
	payload = call(ctx, session, "validate_multimodal_request", map[string]any{
		"model": "gpt-4o", "image_count": 2,
	})
	var verdict api.ValidationResult
	mustDecode(payload, &verdict)
	fmt.Printf("\n[4] Validate gpt-4o with 2 images: valid=%v provider=%s\n",
		verdict.Valid, verdict.Provider)

	// 5. Validate one that does not.
	payload = call(ctx, session, "validate_multimodal_request", map[string]any{
		"model": "gpt-4o", "image_count": 12,
	})
	mustDecode(payload, &verdict)
	fmt.Printf("\n[5] Validate gpt-4o with 12 images: valid=%v reason=%q\n",
		verdict.Valid, verdict.Reason)

	// 6. Generate against the mock backend.
	payload = call(ctx, session, "generate_multimodal_response", map[string]any{
		"model":      "gpt-4o",
		"prompt":     "What is shown in this picture?",
		"image_urls": []string{"https://example.com/demo.jpg"},
	})
	var resp api.MultimodalResponse
	mustDecode(payload, &resp)
	fmt.Printf("\n[6] Generation via %s/%s:\n    %s\n", resp.Provider, resp.Model, resp.Content)
	if resp.Usage != nil {
		fmt.Printf("    tokens: %d in / %d out / %d total\n",
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}

	// 7. Error path: the mock backend simulates a rate limit for this prompt.
	payload = call(ctx, session, "generate_multimodal_response", map[string]any{
		"model":  "gpt-4o",
		"prompt": "trigger rate limit",
	})
	mustDecode(payload, &resp)
	if resp.Error != nil {
		fmt.Printf("\n[7] Simulated failure: type=%s provider=%s\n    %s\n",
			resp.Error.Type, resp.Error.Provider, resp.Error.Message)
	} else {
		fmt.Printf("\n[7] Expected a rate limit error, got: %s\n", resp.Content)
	}

	fmt.Println("\n=== demo complete ===")
}

// call invokes a tool and returns the text payload. Tool results carry
// their domain outcome in the payload, so IsError is informational here.
func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) string {
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		fail("calling "+name, err)
	}
	if len(res.Content) != 1 {
		fail("calling "+name, fmt.Errorf("unexpected content shape (%d items)", len(res.Content)))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		fail("calling "+name, fmt.Errorf("unexpected content type %T", res.Content[0]))
	}
	return tc.Text
}

func mustDecode(payload string, v any) {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		fail("decoding payload", err)
	}
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
