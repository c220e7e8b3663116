package provider

import "testing"

func TestKindValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindOpenAI, true},
		{KindDashscope, true},
		{Kind("anthropic"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Kind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestKindForModel(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		wantKind  Kind
		wantFound bool
	}{
		{"gpt model", "gpt-4o", KindOpenAI, true},
		{"gpt turbo", "gpt-4-turbo", KindOpenAI, true},
		{"qwen vl", "qwen-vl-plus", KindDashscope, true},
		{"qwen without dash", "qwen2-vl-7b-instruct", KindDashscope, true},
		{"gpt without dash", "gpt4o", "", false},
		{"unrelated model", "llama-3-70b", "", false},
		{"case sensitive", "GPT-4o", "", false},
		{"prefix not anywhere", "my-gpt-4o", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, found := KindForModel(tt.model)
			if found != tt.wantFound {
				t.Fatalf("KindForModel(%q) found = %v, want %v", tt.model, found, tt.wantFound)
			}
			if kind != tt.wantKind {
				t.Errorf("KindForModel(%q) = %q, want %q", tt.model, kind, tt.wantKind)
			}
		})
	}
}
