package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	health services.HealthService
}

func NewHealthHandler(db Pinger, health services.HealthService) *HealthHandler {
	return &HealthHandler{db: db, health: health}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

// GET /api/contracts/:id/health
func (h *HealthHandler) ContractHealth(c *gin.Context) {
	contractID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	score, err := h.health.ContractHealth(c.Request.Context(), contractID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"health": score})
}
