package ai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pocketmind/relay/internal/common"
)

// Hosted providers answer quickly; debate replies are capped short anyway.
const (
	hostedTimeout   = 30 * time.Second
	hostedMaxTokens = 150
)

// OpenAIProvider adapts the official OpenAI SDK to the Provider contract.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(hostedTimeout),
		),
		model: model,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		MaxTokens: openai.Int(hostedMaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyOpenAIErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", common.E(common.ErrBackend, "openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIErr(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return common.EUpstream(common.ErrAuth, apierr.StatusCode, "openai: invalid api key")
		default:
			return common.EUpstream(common.ErrBackend, apierr.StatusCode, "openai: %v", err)
		}
	}
	return common.E(common.ErrBackend, "openai: %v", err)
}
