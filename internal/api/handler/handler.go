package handler

import (
	"net/http"

	"datingroulette/backend/internal/chathub"
	"datingroulette/backend/internal/metrics"
	"datingroulette/backend/internal/roulette"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PoolReader exposes the read-only pool snapshot.
type PoolReader interface {
	Snapshot() roulette.PoolStatus
}

// Handler holds what the HTTP routes need.
type Handler struct {
	Hub    *chathub.ManagerService
	Pool   PoolReader
	Tokens *Tokens

	SendBuffer     int
	MaxMessageSize int64

	log *zap.Logger
}

func NewHandler(hub *chathub.ManagerService, pool PoolReader, tokens *Tokens, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Hub:            hub,
		Pool:           pool,
		Tokens:         tokens,
		SendBuffer:     256,
		MaxMessageSize: chathub.DefaultMaxMessageSize,
		log:            log.Named("http"),
	}
}

// Routes registers every endpoint on r. /admin routes need an admin token;
// the token endpoint is only exposed when dev is true.
func (h *Handler) Routes(r gin.IRouter, dev bool) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/admin/pool", h.RequireAdmin(), h.PoolStatus)
	r.GET("/ws", h.ServeWebSocket)
	if dev {
		r.GET("/token", h.IssueToken)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PoolStatus reports the number of waiting connections and live sessions.
func (h *Handler) PoolStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Pool.Snapshot())
}
