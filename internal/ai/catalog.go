package ai

import (
	"strings"

	"github.com/pocketmind/relay/internal/common"
)

// hostedModels is the closed catalog served to clients picking a hosted
// model. Local (ollama) models are discovered live via Tags instead.
var hostedModels = map[Kind][]string{
	KindGoogle: {
		"gemini-1.5-flash",
		"gemini-1.5-flash-002",
		"gemini-1.5-flash-8b",
		"gemini-1.5-pro",
		"gemini-2.0-flash",
		"gemini-2.0-pro-exp",
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemma-3-27b-it",
	},
	KindOpenAI: {
		"gpt-4",
		"gpt-3.5-turbo",
		"gpt-4-turbo",
	},
	KindAnthropic: {
		"claude-3-5-sonnet-20241022",
		"claude-3-5-sonnet-20240620",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
		"claude-3-sonnet-20240229",
		"claude-3-haiku-20240307",
	},
}

// HostedModels returns the model catalog for a hosted provider kind.
func HostedModels(k Kind) ([]string, error) {
	models, ok := hostedModels[Kind(strings.ToLower(strings.TrimSpace(string(k))))]
	if !ok {
		return nil, common.E(common.ErrUnsupported, "unsupported provider: %s", k)
	}
	out := make([]string, len(models))
	copy(out, models)
	return out, nil
}
