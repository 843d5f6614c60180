package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pocketmind/relay/internal/common"
	"github.com/pocketmind/relay/internal/httpapi/handlers"
	"github.com/pocketmind/relay/internal/httpapi/middleware"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(h.Cfg.CORSOrigins) == 1 && h.Cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = h.Cfg.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.RequestIDHeader)
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, common.CodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, common.CodeInvalidArgument, "method not allowed")
	})

	api := r.Group("/api")
	api.GET("/health", h.Health)

	// relay
	api.POST("/chat", h.Chat)
	api.POST("/tags", h.Tags)
	api.POST("/online-models", h.OnlineModels)
	api.POST("/speech", h.Transcribe)

	// debate lifecycle
	api.POST("/debate/start", h.StartDebate)
	api.POST("/debate/next", h.NextDebateTurn)
	api.POST("/debate/stop", h.StopDebate)
	api.POST("/debate/run", h.RunDebate)
	api.GET("/debate/history/:debate_id", h.DebateHistory)

	return r
}
