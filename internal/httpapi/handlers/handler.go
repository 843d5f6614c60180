package handlers

import (
	"github.com/pocketmind/relay/internal/ai"
	"github.com/pocketmind/relay/internal/config"
	"github.com/pocketmind/relay/internal/debate"
	"github.com/pocketmind/relay/internal/speech"
)

type Handler struct {
	Cfg    config.Config
	Reg    *ai.Registry
	Svc    *debate.Service
	Runner *debate.Runner
	Speech *speech.Client
}

func NewHandler(cfg config.Config) *Handler {
	return NewHandlerWith(cfg, ai.NewDefaultRegistry())
}

// NewHandlerWith lets tests swap in a registry with fake providers.
func NewHandlerWith(cfg config.Config, reg *ai.Registry) *Handler {
	store := debate.NewStore(cfg.DebateMaxSessions)
	svc := debate.NewService(store, reg, cfg.DebateContextWindow)
	return &Handler{
		Cfg:    cfg,
		Reg:    reg,
		Svc:    svc,
		Runner: debate.NewRunner(svc, cfg.DebateTurnDelay),
		Speech: speech.NewClient(cfg.GoogleAPIKey),
	}
}
