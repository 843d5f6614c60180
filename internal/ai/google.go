package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketmind/relay/internal/common"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleProvider calls the Gemini generateContent API directly; no official
// Go SDK is used for this provider.
type GoogleProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGoogleProvider(baseURL, apiKey, model string) *GoogleProvider {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &GoogleProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: hostedTimeout},
	}
}

type googleGenerateReq struct {
	Contents []googleContent `json:"contents"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenerateResp struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GoogleProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := googleGenerateReq{
		Contents: []googleContent{{Parts: []googlePart{{Text: prompt}}}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(p.BaseURL, "/"), p.Model, url.QueryEscape(p.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", common.E(common.ErrBackend, "google: %v", err)
	}
	defer resp.Body.Close()

	var decoded googleGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && resp.StatusCode < 400 {
		return "", common.E(common.ErrBackend, "google: decode response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", common.EUpstream(common.ErrAuth, resp.StatusCode, "google: %s", msg)
		}
		return "", common.EUpstream(common.ErrBackend, resp.StatusCode, "google: %s", msg)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", common.E(common.ErrBackend, "google: empty response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
