package dashscope

// Dashscope multimodal-generation wire types (internal to the adapter).
// The protocol nests messages under "input" and sampling parameters under
// "parameters"; message content is a list of single-key items.

type generationRequest struct {
	Model      string               `json:"model"`
	Input      generationInput      `json:"input"`
	Parameters generationParameters `json:"parameters"`
}

type generationInput struct {
	Messages []generationMessage `json:"messages"`
}

type generationMessage struct {
	Role    string           `json:"role"`
	Content []generationItem `json:"content"`
}

// generationItem carries exactly one of Text or Image.
type generationItem struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type generationParameters struct {
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// generationResponse is the response body. Code and Message are set on
// error payloads, which Dashscope can return with any status code.
type generationResponse struct {
	Output    *generationOutput `json:"output,omitempty"`
	Usage     *generationUsage  `json:"usage,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
}

type generationOutput struct {
	Choices []generationChoice `json:"choices"`
}

type generationChoice struct {
	Message      generationMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type generationUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
