package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketmind/relay/internal/ai"
	"github.com/pocketmind/relay/internal/common"
	"github.com/pocketmind/relay/internal/debate"
)

type startDebateReq struct {
	Topic    string     `json:"topic"`
	First    ai.Backend `json:"first"`
	Second   ai.Backend `json:"second"`
	Rounds   int        `json:"rounds"`
	Infinite bool       `json:"infinite"`
	Auto     bool       `json:"auto"`
}

func (h *Handler) StartDebate(c *gin.Context) {
	var req startDebateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "invalid json")
		return
	}

	sess, err := h.Svc.Start(debate.StartParams{
		Topic:  req.Topic,
		First:  req.First,
		Second: req.Second,
		Limit:  debate.RoundLimit{Rounds: req.Rounds, Infinite: req.Infinite},
	})
	if err != nil {
		common.FailErr(c, err)
		return
	}

	if req.Auto {
		if err := h.Runner.Launch(sess.ID); err != nil {
			common.FailErr(c, err)
			return
		}
	}

	common.OK(c, gin.H{
		"debate_id": sess.ID,
		"topic":     sess.Topic,
	})
}

type debateIDReq struct {
	DebateID string `json:"debate_id" binding:"required"`
}

func (h *Handler) NextDebateTurn(c *gin.Context) {
	var req debateIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "debate_id is required")
		return
	}

	res, err := h.Svc.Advance(c.Request.Context(), req.DebateID)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	if res.Finished {
		common.OK(c, gin.H{
			"finished": true,
			"rounds":   res.Rounds,
		})
		return
	}

	common.OK(c, gin.H{
		"finished":     false,
		"last_round":   res.LastRound,
		"turn":         res.Turn,
		"rounds":       res.Rounds,
		"max_rounds":   res.Limit.Rounds,
		"infinite":     res.Limit.Infinite,
		"next_speaker": res.Next,
	})
}

func (h *Handler) StopDebate(c *gin.Context) {
	var req debateIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "debate_id is required")
		return
	}

	// cancel the in-process driver first so no new turn is dispatched
	h.Runner.Cancel(req.DebateID)

	rounds, err := h.Svc.Stop(req.DebateID)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{"rounds": rounds})
}

func (h *Handler) RunDebate(c *gin.Context) {
	var req debateIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidArgument, "debate_id is required")
		return
	}

	if err := h.Runner.Launch(req.DebateID); err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{"running": true})
}

func (h *Handler) DebateHistory(c *gin.Context) {
	id := c.Param("debate_id")

	status, err := h.Svc.Inspect(id)
	if err != nil {
		common.FailErr(c, err)
		return
	}

	common.OK(c, gin.H{
		"history":      status.Transcript,
		"rounds":       status.Rounds,
		"max_rounds":   status.Limit.Rounds,
		"infinite":     status.Limit.Infinite,
		"active":       status.Active,
		"next_speaker": status.NextSpeaker,
	})
}
