package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/platform/apierr"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type MilestoneHandler struct {
	milestones services.MilestoneService
}

func NewMilestoneHandler(milestones services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones}
}

// POST /api/contracts/:id/milestones/sync
func (h *MilestoneHandler) SyncMilestones(c *gin.Context) {
	contractID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.milestones.SyncMilestones(c.Request.Context(), contractID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"milestones": res})
}

// POST /api/milestones/:id/complete
func (h *MilestoneHandler) CompleteMilestone(c *gin.Context) {
	milestoneID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.milestones.CompleteMilestone(c.Request.Context(), milestoneID, actorID(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"milestone": res})
}

// POST /api/milestones/sweep
// body (optional): { "asOf": "2025-03-01T00:00:00Z" }
func (h *MilestoneHandler) Sweep(c *gin.Context) {
	var req struct {
		AsOf *time.Time `json:"asOf"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondErr(c, apierr.BadRequest("invalid_request", err))
		return
	}
	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}
	res, err := h.milestones.SweepMilestones(c.Request.Context(), asOf)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sweep": res})
}
