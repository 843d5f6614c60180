package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketmind/relay/internal/ai"
	"github.com/pocketmind/relay/internal/common"
	"github.com/pocketmind/relay/internal/config"
	"github.com/pocketmind/relay/internal/httpapi/handlers"
)

type stubProvider struct{}

func (stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "stub reply", nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := ai.NewRegistry()
	reg.Register(ai.KindOllama, func(b ai.Backend) (ai.Provider, error) {
		return stubProvider{}, nil
	})

	cfg := config.Config{
		Port:                4646,
		CORSOrigins:         []string{"*"},
		DebateContextWindow: 6,
		DebateMaxSessions:   8,
		DebateTurnDelay:     time.Millisecond,
	}
	h := handlers.NewHandlerWith(cfg, reg)
	t.Cleanup(h.Runner.Shutdown)
	return NewRouter(h)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %s %s: %v (body %s)", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func localParticipant() map[string]any {
	return map[string]any{
		"provider": "ollama",
		"model":    "llama3",
		"host":     "127.0.0.1",
		"port":     "11434",
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	status, env := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("health: status %d code %d", status, env.Code)
	}
}

func TestChat(t *testing.T) {
	r := newTestRouter(t)
	status, env := doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"provider": "ollama",
		"model":    "llama3",
		"prompt":   "hi",
		"host":     "127.0.0.1",
		"port":     "11434",
	})
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("chat: status %d code %d message %q", status, env.Code, env.Message)
	}

	var data struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Reply != "stub reply" {
		t.Fatalf("unexpected reply %q", data.Reply)
	}
}

func TestChat_MissingPrompt(t *testing.T) {
	r := newTestRouter(t)
	status, env := doJSON(t, r, http.MethodPost, "/api/chat", map[string]any{
		"provider": "ollama",
		"model":    "llama3",
		"host":     "127.0.0.1",
		"port":     "11434",
	})
	if status != http.StatusBadRequest || env.Code != common.CodeInvalidArgument {
		t.Fatalf("expected 400/%d, got %d/%d", common.CodeInvalidArgument, status, env.Code)
	}
}

func TestDebateLifecycle(t *testing.T) {
	r := newTestRouter(t)

	status, env := doJSON(t, r, http.MethodPost, "/api/debate/start", map[string]any{
		"topic":  "Cats versus dogs",
		"first":  localParticipant(),
		"second": localParticipant(),
		"rounds": 1,
	})
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("start: status %d code %d message %q", status, env.Code, env.Message)
	}
	var started struct {
		DebateID string `json:"debate_id"`
		Topic    string `json:"topic"`
	}
	if err := json.Unmarshal(env.Data, &started); err != nil {
		t.Fatalf("decode start data: %v", err)
	}
	if started.DebateID == "" || started.Topic != "Cats versus dogs" {
		t.Fatalf("unexpected start data %+v", started)
	}

	// the single allowed round
	status, env = doJSON(t, r, http.MethodPost, "/api/debate/next", map[string]any{"debate_id": started.DebateID})
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("next: status %d code %d message %q", status, env.Code, env.Message)
	}
	var next struct {
		Finished  bool `json:"finished"`
		LastRound bool `json:"last_round"`
		Rounds    int  `json:"rounds"`
		Turn      struct {
			Speaker string `json:"speaker"`
			Content string `json:"content"`
		} `json:"turn"`
	}
	if err := json.Unmarshal(env.Data, &next); err != nil {
		t.Fatalf("decode next data: %v", err)
	}
	if next.Finished || !next.LastRound || next.Rounds != 1 {
		t.Fatalf("unexpected next data %+v", next)
	}
	if next.Turn.Speaker != "ai1" || next.Turn.Content != "stub reply" {
		t.Fatalf("unexpected turn %+v", next.Turn)
	}

	// the limit is observed on the following call
	status, env = doJSON(t, r, http.MethodPost, "/api/debate/next", map[string]any{"debate_id": started.DebateID})
	if status != http.StatusOK {
		t.Fatalf("finishing next: status %d message %q", status, env.Message)
	}
	var done struct {
		Finished bool `json:"finished"`
		Rounds   int  `json:"rounds"`
	}
	if err := json.Unmarshal(env.Data, &done); err != nil {
		t.Fatalf("decode finish data: %v", err)
	}
	if !done.Finished || done.Rounds != 1 {
		t.Fatalf("unexpected finish data %+v", done)
	}

	// advancing a finished debate conflicts
	status, env = doJSON(t, r, http.MethodPost, "/api/debate/next", map[string]any{"debate_id": started.DebateID})
	if status != http.StatusConflict || env.Code != common.CodeInactive {
		t.Fatalf("expected 409/%d, got %d/%d", common.CodeInactive, status, env.Code)
	}

	// history survives the finish
	status, env = doJSON(t, r, http.MethodGet, "/api/debate/history/"+started.DebateID, nil)
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("history: status %d code %d", status, env.Code)
	}
	var hist struct {
		History []struct {
			Speaker string `json:"speaker"`
		} `json:"history"`
		Rounds int  `json:"rounds"`
		Active bool `json:"active"`
	}
	if err := json.Unmarshal(env.Data, &hist); err != nil {
		t.Fatalf("decode history data: %v", err)
	}
	if hist.Active || hist.Rounds != 1 {
		t.Fatalf("unexpected history data %+v", hist)
	}
	if len(hist.History) != 2 || hist.History[0].Speaker != "system" || hist.History[1].Speaker != "ai1" {
		t.Fatalf("unexpected transcript %+v", hist.History)
	}
}

func TestStartDebate_Rejections(t *testing.T) {
	r := newTestRouter(t)

	// first participant lacks a model
	status, env := doJSON(t, r, http.MethodPost, "/api/debate/start", map[string]any{
		"first":  map[string]any{"provider": "ollama", "host": "127.0.0.1", "port": "11434"},
		"second": localParticipant(),
	})
	if status != http.StatusBadRequest || env.Code != common.CodeInvalidArgument {
		t.Fatalf("expected 400/%d, got %d/%d", common.CodeInvalidArgument, status, env.Code)
	}

	// unknown provider kind
	status, env = doJSON(t, r, http.MethodPost, "/api/debate/start", map[string]any{
		"first":  map[string]any{"provider": "mystery", "model": "m"},
		"second": localParticipant(),
	})
	if status != http.StatusBadRequest || env.Code != common.CodeUnsupported {
		t.Fatalf("expected 400/%d, got %d/%d", common.CodeUnsupported, status, env.Code)
	}

	// negative round limit
	status, env = doJSON(t, r, http.MethodPost, "/api/debate/start", map[string]any{
		"first":  localParticipant(),
		"second": localParticipant(),
		"rounds": -3,
	})
	if status != http.StatusBadRequest || env.Code != common.CodeInvalidArgument {
		t.Fatalf("expected 400/%d, got %d/%d", common.CodeInvalidArgument, status, env.Code)
	}
}

func TestNextDebateTurn_Unknown(t *testing.T) {
	r := newTestRouter(t)
	status, env := doJSON(t, r, http.MethodPost, "/api/debate/next", map[string]any{"debate_id": "missing"})
	if status != http.StatusNotFound || env.Code != common.CodeNotFound {
		t.Fatalf("expected 404/%d, got %d/%d", common.CodeNotFound, status, env.Code)
	}
}

func TestStopDebate(t *testing.T) {
	r := newTestRouter(t)

	_, env := doJSON(t, r, http.MethodPost, "/api/debate/start", map[string]any{
		"first":  localParticipant(),
		"second": localParticipant(),
	})
	var started struct {
		DebateID string `json:"debate_id"`
	}
	if err := json.Unmarshal(env.Data, &started); err != nil {
		t.Fatalf("decode start data: %v", err)
	}

	status, env := doJSON(t, r, http.MethodPost, "/api/debate/stop", map[string]any{"debate_id": started.DebateID})
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("stop: status %d code %d", status, env.Code)
	}

	status, env = doJSON(t, r, http.MethodPost, "/api/debate/next", map[string]any{"debate_id": started.DebateID})
	if status != http.StatusConflict || env.Code != common.CodeInactive {
		t.Fatalf("expected 409/%d after stop, got %d/%d", common.CodeInactive, status, env.Code)
	}
}

func TestOnlineModels(t *testing.T) {
	r := newTestRouter(t)

	status, env := doJSON(t, r, http.MethodPost, "/api/online-models", map[string]any{
		"provider": "anthropic",
		"api_key":  "k",
	})
	if status != http.StatusOK || env.Code != common.CodeOK {
		t.Fatalf("online-models: status %d code %d", status, env.Code)
	}
	var data struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Models) == 0 {
		t.Fatalf("expected a model catalog")
	}

	status, env = doJSON(t, r, http.MethodPost, "/api/online-models", map[string]any{
		"provider": "mystery",
		"api_key":  "k",
	})
	if status != http.StatusBadRequest || env.Code != common.CodeUnsupported {
		t.Fatalf("expected 400/%d, got %d/%d", common.CodeUnsupported, status, env.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)
	status, env := doJSON(t, r, http.MethodGet, "/api/nope", nil)
	if status != http.StatusNotFound || env.Code != common.CodeNotFound {
		t.Fatalf("expected 404/%d, got %d/%d", common.CodeNotFound, status, env.Code)
	}
}
