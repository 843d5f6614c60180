package ai

import (
	"sync"

	"github.com/pocketmind/relay/internal/common"
)

type Factory func(b Backend) (Provider, error)

// Registry routes a Backend descriptor to the adapter for its kind.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// NewDefaultRegistry wires all supported backend kinds.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindOllama, func(b Backend) (Provider, error) {
		return NewOllamaProvider(b.Host, b.Port, b.Model), nil
	})
	r.Register(KindOpenAI, func(b Backend) (Provider, error) {
		return NewOpenAIProvider(b.APIKey, b.Model), nil
	})
	r.Register(KindAnthropic, func(b Backend) (Provider, error) {
		return NewAnthropicProvider(b.APIKey, b.Model), nil
	})
	r.Register(KindGoogle, func(b Backend) (Provider, error) {
		return NewGoogleProvider("", b.APIKey, b.Model), nil
	})
	return r
}

func (r *Registry) Register(k Kind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[k] = f
}

func (r *Registry) Get(b Backend) (Provider, error) {
	b = b.Normalize()
	r.mu.RLock()
	f, ok := r.factories[b.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, common.E(common.ErrUnsupported, "unsupported provider: %s", b.Kind)
	}
	return f(b)
}
