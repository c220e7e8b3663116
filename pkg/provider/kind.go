package provider

import "strings"

// Kind identifies a backend family. The set is closed: request routing
// dispatches over these values only, and adding a backend means adding a
// Kind plus a prefix table entry.
type Kind string

const (
	// KindOpenAI covers OpenAI-compatible Chat Completions backends.
	KindOpenAI Kind = "openai"

	// KindDashscope covers Alibaba Cloud Dashscope backends.
	KindDashscope Kind = "dashscope"
)

// Valid reports whether k is a known backend family.
func (k Kind) Valid() bool {
	switch k {
	case KindOpenAI, KindDashscope:
		return true
	}
	return false
}

// modelPrefixes maps model-name prefixes to backend families. Entries are
// ordered and the first match wins.
var modelPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{"gpt-", KindOpenAI},
	{"qwen", KindDashscope},
}

// KindForModel returns the backend family claimed by the model-name prefix
// convention. The second return value is false when no prefix matches;
// callers must treat that as an unsupported model, not fall back to an
// arbitrary provider.
func KindForModel(model string) (Kind, bool) {
	for _, e := range modelPrefixes {
		if strings.HasPrefix(model, e.prefix) {
			return e.kind, true
		}
	}
	return "", false
}
