package ai

import (
	"testing"

	"github.com/pocketmind/relay/internal/common"
)

func TestBackendValidate(t *testing.T) {
	cases := []struct {
		name    string
		backend Backend
		want    common.ErrKind
	}{
		{"ollama ok", Backend{Kind: KindOllama, Model: "llama3", Host: "127.0.0.1", Port: "11434"}, ""},
		{"openai ok", Backend{Kind: KindOpenAI, Model: "gpt-4", APIKey: "sk-x"}, ""},
		{"anthropic ok", Backend{Kind: KindAnthropic, Model: "claude-3-haiku-20240307", APIKey: "k"}, ""},
		{"google ok", Backend{Kind: KindGoogle, Model: "gemini-1.5-flash", APIKey: "k"}, ""},
		{"missing model", Backend{Kind: KindOllama, Host: "127.0.0.1", Port: "11434"}, common.ErrInvalidArgument},
		{"ollama missing host", Backend{Kind: KindOllama, Model: "llama3", Port: "11434"}, common.ErrInvalidArgument},
		{"ollama missing port", Backend{Kind: KindOllama, Model: "llama3", Host: "127.0.0.1"}, common.ErrInvalidArgument},
		{"hosted missing key", Backend{Kind: KindAnthropic, Model: "claude-3-haiku-20240307"}, common.ErrInvalidArgument},
		{"unknown kind", Backend{Kind: "mystery", Model: "m"}, common.ErrUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.backend.Normalize().Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid backend, got %v", err)
				}
				return
			}
			if common.KindOf(err) != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}
}

func TestBackendNormalize_DefaultsToOllama(t *testing.T) {
	b := Backend{Model: " llama3 "}.Normalize()
	if b.Kind != KindOllama {
		t.Fatalf("expected ollama default, got %s", b.Kind)
	}
	if b.Model != "llama3" {
		t.Fatalf("expected trimmed model, got %q", b.Model)
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(Backend{Kind: "mystery", Model: "m"})
	if common.KindOf(err) != common.ErrUnsupported {
		t.Fatalf("expected unsupported_provider, got %v", err)
	}
}

func TestHostedModels(t *testing.T) {
	models, err := HostedModels(KindAnthropic)
	if err != nil {
		t.Fatalf("hosted models: %v", err)
	}
	if len(models) == 0 {
		t.Fatalf("expected a non-empty catalog")
	}

	if _, err := HostedModels(KindOllama); common.KindOf(err) != common.ErrUnsupported {
		t.Fatalf("ollama models are discovered via tags, expected unsupported_provider, got %v", err)
	}
}
