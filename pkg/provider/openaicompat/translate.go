package openaicompat

import (
	"github.com/StanleyChanH/vllm-mcp/pkg/content"
)

// BuildChatRequest assembles a Chat Completions request from resolved
// content parts. A non-empty system prompt becomes the leading system
// message; the parts form a single multimodal user message in order.
func BuildChatRequest(model, systemPrompt string, parts []content.Part, maxTokens *int, temperature *float64) *ChatCompletionRequest {
	req := &ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	if systemPrompt != "" {
		req.Messages = append(req.Messages, ChatMessage{Role: "system", Content: systemPrompt})
	}

	userParts := make([]ChatContentPart, 0, len(parts))
	for _, p := range parts {
		if p.Image != "" {
			userParts = append(userParts, ChatContentPart{
				Type:     "image_url",
				ImageURL: &ChatImageURL{URL: p.Image},
			})
			continue
		}
		userParts = append(userParts, ChatContentPart{Type: "text", Text: p.Text})
	}
	req.Messages = append(req.Messages, ChatMessage{Role: "user", Content: userParts})

	return req
}
