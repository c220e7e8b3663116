package server

import (
	"strings"
	"testing"

	"github.com/StanleyChanH/vllm-mcp/pkg/config"
)

func TestBuildRegistry_SkipsEntriesWithoutAPIKey(t *testing.T) {
	cfg := config.Defaults()

	registry, err := BuildRegistry(&cfg, testLogger())
	if err != nil {
		t.Fatalf("BuildRegistry() error: %v", err)
	}
	if registry.Len() != 0 {
		t.Errorf("Len() = %d, want 0 when no entry has an API key", registry.Len())
	}
}

func TestBuildRegistry_BuildsConfiguredProviders(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider("openai").APIKey = "sk-openai"
	cfg.Provider("dashscope").APIKey = "sk-dashscope"

	registry, err := BuildRegistry(&cfg, testLogger())
	if err != nil {
		t.Fatalf("BuildRegistry() error: %v", err)
	}
	t.Cleanup(func() { _ = registry.Close() })

	if registry.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", registry.Len())
	}

	infos := registry.List()
	if infos[0].Name != "openai" || infos[1].Name != "dashscope" {
		t.Errorf("registration order = [%s, %s], want config order [openai, dashscope]",
			infos[0].Name, infos[1].Name)
	}
}

func TestBuildRegistry_PartialKeys(t *testing.T) {
	cfg := config.Defaults()
	cfg.Provider("dashscope").APIKey = "sk-dashscope"

	registry, err := BuildRegistry(&cfg, testLogger())
	if err != nil {
		t.Fatalf("BuildRegistry() error: %v", err)
	}
	t.Cleanup(func() { _ = registry.Close() })

	if registry.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", registry.Len())
	}
	if registry.List()[0].Name != "dashscope" {
		t.Errorf("registered = %q, want dashscope", registry.List()[0].Name)
	}
}

func TestBuildProvider_UnknownType(t *testing.T) {
	_, err := buildProvider(&config.ProviderConfig{ProviderType: "gemini", APIKey: "sk-x"})
	if err == nil {
		t.Fatal("buildProvider() should fail for an unknown type")
	}
	if !strings.Contains(err.Error(), `unknown provider type "gemini"`) {
		t.Errorf("error = %q, want the type named", err)
	}
}
