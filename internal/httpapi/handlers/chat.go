package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketmind/relay/internal/ai"
	"github.com/pocketmind/relay/internal/common"
)

func (h *Handler) Health(c *gin.Context) {
	common.OK(c, gin.H{
		"service": "pocketmind-relay",
		"port":    h.Cfg.Port,
	})
}

type chatReq struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	APIKey   string `json:"api_key"`
}

// Chat relays one single-turn completion to the requested backend.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "invalid json")
		return
	}
	if req.Prompt == "" {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "prompt is required")
		return
	}

	backend := ai.Backend{
		Kind:   ai.Kind(req.Provider),
		Model:  req.Model,
		Host:   req.Host,
		Port:   req.Port,
		APIKey: req.APIKey,
	}.Normalize()
	if err := backend.Validate(); err != nil {
		common.FailErr(c, err)
		return
	}

	prov, err := h.Reg.Get(backend)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	reply, err := prov.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{"reply": reply})
}

type tagsReq struct {
	Host string `json:"host" binding:"required"`
	Port string `json:"port" binding:"required"`
}

// Tags lists the models installed on a local Ollama server.
func (h *Handler) Tags(c *gin.Context) {
	var req tagsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "host and port are required")
		return
	}

	models, err := ai.NewOllamaProvider(req.Host, req.Port, "").Tags(c.Request.Context())
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{"models": models})
}

type onlineModelsReq struct {
	Provider string `json:"provider" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

// OnlineModels returns the closed model catalog for a hosted provider.
func (h *Handler) OnlineModels(c *gin.Context) {
	var req onlineModelsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "provider and api_key are required")
		return
	}

	models, err := ai.HostedModels(ai.Kind(req.Provider))
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{
		"provider": req.Provider,
		"models":   models,
	})
}
