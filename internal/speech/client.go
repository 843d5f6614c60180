// Package speech relays audio transcription requests to the Google
// Speech-to-Text API so the browser never sees the server-side key.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pocketmind/relay/internal/common"
)

const (
	defaultBaseURL  = "https://speech.googleapis.com/v1"
	defaultLanguage = "tr-TR"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

type recognizeReq struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string `json:"encoding"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResp struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Recognize transcribes base64-encoded audio. The encoding is inferred from
// the MIME type the browser recorded with.
func (c *Client) Recognize(ctx context.Context, audioB64, mimeType, language string) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", common.E(common.ErrAuth, "speech: google api key is not configured")
	}
	if language == "" {
		language = defaultLanguage
	}

	reqBody := recognizeReq{
		Config: recognizeConfig{
			Encoding:                   encodingFor(mimeType),
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
			Model:                      "default",
		},
		Audio: recognizeAudio{Content: audioB64},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/speech:recognize?key=%s",
		strings.TrimRight(c.BaseURL, "/"), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", common.E(common.ErrBackend, "speech: %v", err)
	}
	defer resp.Body.Close()

	var decoded recognizeResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && resp.StatusCode < 400 {
		return "", common.E(common.ErrBackend, "speech: decode response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", common.EUpstream(common.ErrAuth, resp.StatusCode, "speech: %s", msg)
		}
		return "", common.EUpstream(common.ErrBackend, resp.StatusCode, "speech: %s", msg)
	}

	parts := make([]string, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if len(r.Alternatives) > 0 && r.Alternatives[0].Transcript != "" {
			parts = append(parts, r.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func encodingFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "webm"):
		return "WEBM_OPUS"
	case strings.Contains(mimeType, "ogg"):
		return "OGG_OPUS"
	case strings.Contains(mimeType, "wav"):
		return "LINEAR16"
	default:
		return "WEBM_OPUS"
	}
}
