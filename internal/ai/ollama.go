package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pocketmind/relay/internal/common"
)

// Local generation can be slow on modest hardware; tag listing is cheap.
const (
	ollamaGenerateTimeout = 120 * time.Second
	ollamaTagsTimeout     = 30 * time.Second
)

// OllamaProvider talks to a locally reachable Ollama server.
type OllamaProvider struct {
	Host   string
	Port   string
	Model  string
	Client *http.Client
}

func NewOllamaProvider(host, port, model string) *OllamaProvider {
	return &OllamaProvider{
		Host:   host,
		Port:   port,
		Model:  model,
		Client: &http.Client{Timeout: ollamaGenerateTimeout},
	}
}

func (p *OllamaProvider) baseURL() string {
	return fmt.Sprintf("http://%s:%s", p.Host, p.Port)
}

type ollamaGenerateReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResp struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaGenerateReq{
		Model:  p.Model,
		Prompt: prompt,
		Stream: false,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/api/generate", p.baseURL())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", common.E(common.ErrUnreachable, "ollama: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", common.EUpstream(common.ErrBackend, resp.StatusCode, "ollama: %s", upstreamMessage(resp))
	}

	var decoded ollamaGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", common.E(common.ErrBackend, "ollama: decode response: %v", err)
	}
	if decoded.Error != "" {
		return "", common.E(common.ErrBackend, "ollama: %s", decoded.Error)
	}
	return decoded.Response, nil
}

type ollamaTagsResp struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
	Error string `json:"error,omitempty"`
}

// Tags lists the model names installed on the Ollama server.
func (p *OllamaProvider) Tags(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaTagsTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/tags", p.baseURL())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, common.E(common.ErrUnreachable, "ollama: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.EUpstream(common.ErrBackend, resp.StatusCode, "ollama: %s", upstreamMessage(resp))
	}

	var decoded ollamaTagsResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, common.E(common.ErrBackend, "ollama: decode tags: %v", err)
	}
	if decoded.Error != "" {
		return nil, common.E(common.ErrBackend, "ollama: %s", decoded.Error)
	}

	names := make([]string, 0, len(decoded.Models))
	for _, m := range decoded.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// upstreamMessage pulls a short human-readable message out of a non-2xx body,
// preferring a JSON {"error": ...} field.
func upstreamMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != "" {
		return decoded.Error
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return msg
}
