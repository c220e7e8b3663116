package api

import (
	"encoding/json"
	"testing"
)

func TestMultimodalRequestJSON(t *testing.T) {
	maxTokens := 500
	temperature := 0.2
	req := MultimodalRequest{
		Model:        "gpt-4o",
		Prompt:       "describe the image",
		ImageURLs:    []string{"https://example.com/cat.jpg"},
		SystemPrompt: "be brief",
		MaxTokens:    &maxTokens,
		Temperature:  &temperature,
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got MultimodalRequest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Model != req.Model {
		t.Errorf("Model = %q, want %q", got.Model, req.Model)
	}
	if got.MaxTokens == nil || *got.MaxTokens != maxTokens {
		t.Errorf("MaxTokens = %v, want %d", got.MaxTokens, maxTokens)
	}
	if got.Temperature == nil || *got.Temperature != temperature {
		t.Errorf("Temperature = %v, want %g", got.Temperature, temperature)
	}
	if len(got.FilePaths) != 0 {
		t.Errorf("FilePaths = %v, want empty", got.FilePaths)
	}
}

func TestMultimodalRequestOptionalFieldsOmitted(t *testing.T) {
	req := MultimodalRequest{Model: "gpt-4o", Prompt: "hello"}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, field := range []string{"image_urls", "file_paths", "system_prompt", "max_tokens", "temperature", "provider"} {
		if _, ok := m[field]; ok {
			t.Errorf("unset %s should be omitted from JSON", field)
		}
	}
}

func TestHasAttachments(t *testing.T) {
	tests := []struct {
		name string
		req  MultimodalRequest
		want bool
	}{
		{"none", MultimodalRequest{Prompt: "hi"}, false},
		{"images", MultimodalRequest{ImageURLs: []string{"https://example.com/a.png"}}, true},
		{"files", MultimodalRequest{FilePaths: []string{"notes.txt"}}, true},
		{"both", MultimodalRequest{ImageURLs: []string{"a"}, FilePaths: []string{"b"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.HasAttachments(); got != tt.want {
				t.Errorf("HasAttachments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultimodalResponseErrorShape(t *testing.T) {
	resp := MultimodalResponse{
		Model: "gpt-4o",
		Error: NewValidationError("image_urls", "too many images"),
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	errObj, ok := m["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("error field missing or not an object: %v", m["error"])
	}
	if errObj["type"] != "validation_error" {
		t.Errorf("error.type = %v, want %q", errObj["type"], "validation_error")
	}
	if _, ok := m["usage"]; ok {
		t.Error("nil usage should be omitted from JSON")
	}
}

func TestValidationResultJSON(t *testing.T) {
	ok := ValidationResult{Valid: true, Provider: "openai"}
	data, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, present := m["reason"]; present {
		t.Error("empty reason should be omitted from JSON")
	}
	if m["valid"] != true {
		t.Errorf("valid = %v, want true", m["valid"])
	}
}
