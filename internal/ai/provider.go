// Package ai holds the backend adapters. Each adapter normalizes one
// text-generation backend (a locally reachable Ollama server or a hosted
// provider API) to the Provider contract consumed by the chat relay and the
// debate scheduler.
package ai

import (
	"context"
	"strings"

	"github.com/pocketmind/relay/internal/common"
)

// Kind is the closed set of backend kinds the relay can talk to.
type Kind string

const (
	KindOllama    Kind = "ollama"
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGoogle    Kind = "google"
)

// Backend describes one resolvable text-generation backend. Ollama backends
// are addressed by host+port; hosted backends by API key. Which fields are
// required depends on Kind.
type Backend struct {
	Kind   Kind   `json:"provider"`
	Model  string `json:"model"`
	Host   string `json:"host,omitempty"`
	Port   string `json:"port,omitempty"`
	APIKey string `json:"api_key,omitempty"`
}

// Normalize fills the default kind and trims addressing fields.
func (b Backend) Normalize() Backend {
	b.Kind = Kind(strings.ToLower(strings.TrimSpace(string(b.Kind))))
	if b.Kind == "" {
		b.Kind = KindOllama
	}
	b.Model = strings.TrimSpace(b.Model)
	b.Host = strings.TrimSpace(b.Host)
	b.Port = strings.TrimSpace(b.Port)
	return b
}

// Validate enforces the per-kind preconditions before any call is dispatched.
func (b Backend) Validate() error {
	if b.Model == "" {
		return common.E(common.ErrInvalidArgument, "model is required")
	}
	switch b.Kind {
	case KindOllama:
		if b.Host == "" || b.Port == "" {
			return common.E(common.ErrInvalidArgument, "ollama backend requires host and port")
		}
	case KindOpenAI, KindAnthropic, KindGoogle:
		if strings.TrimSpace(b.APIKey) == "" {
			return common.E(common.ErrInvalidArgument, "%s backend requires an api key", b.Kind)
		}
	default:
		return common.E(common.ErrUnsupported, "unsupported provider: %s", b.Kind)
	}
	return nil
}

// Provider produces one plain-text completion for a prompt. Adapters are
// stateless and safe for concurrent use across sessions.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
