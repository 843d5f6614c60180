package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketmind/relay/internal/common"
)

type speechReq struct {
	Audio    string `json:"audio" binding:"required"`
	MimeType string `json:"mime_type"`
	Language string `json:"language"`
}

// Transcribe turns base64-encoded audio into text via the Google
// Speech-to-Text relay.
func (h *Handler) Transcribe(c *gin.Context) {
	var req speechReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "audio is required")
		return
	}

	transcript, err := h.Speech.Recognize(c.Request.Context(), req.Audio, req.MimeType, req.Language)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{"transcript": transcript})
}
