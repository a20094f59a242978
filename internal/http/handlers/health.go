package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc probes one backing store.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	postgres PingFunc
	mongo    PingFunc
}

func NewHealthHandler(postgres, mongo PingFunc) *HealthHandler {
	return &HealthHandler{postgres: postgres, mongo: mongo}
}

// Health reports liveness plus per-store reachability. It always answers
// 200 so load balancers can distinguish "process up, store down" from
// "process down" by reading the body.
func (h *HealthHandler) Health(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	ctx.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"postgres": h.probe(cctx, h.postgres),
		"mongo":    h.probe(cctx, h.mongo),
	})
}

func (h *HealthHandler) probe(ctx context.Context, ping PingFunc) string {
	if ping == nil {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
