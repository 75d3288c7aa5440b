package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type PlanHandler struct {
	plans services.PlanService
}

func NewPlanHandler(plans services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// POST /api/contracts/:id/journey
// body: { "periodType": "SEMESTER" }
func (h *PlanHandler) InitializeJourney(c *gin.Context) {
	contractID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		PeriodType string `json:"periodType" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.plans.InitializeJourney(c.Request.Context(), contractID, req.PeriodType, actorID(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"journey": res})
}

// POST /api/contracts/:id/lock
// body: { "signature": "data:image/png;base64,..." }
func (h *PlanHandler) LockTSF(c *gin.Context) {
	contractID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Signature string `json:"signature" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.plans.LockTSF(c.Request.Context(), contractID, req.Signature, actorID(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lock": res})
}

// GET /api/contracts/:id/plan
func (h *PlanHandler) GetPlan(c *gin.Context) {
	contractID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	view, err := h.plans.GetPlan(c.Request.Context(), contractID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": view})
}

// POST /api/plan-mappings/:id/teaching-site/cycle
func (h *PlanHandler) CycleTeachingSite(c *gin.Context) {
	mappingID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.plans.CycleTeachingSite(c.Request.Context(), mappingID, actorID(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mapping": res})
}

// PUT /api/plan-mappings/:id/teaching-site
// body: { "site": "ENTERPRISE" }
func (h *PlanHandler) SetTeachingSite(c *gin.Context) {
	mappingID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var req struct {
		Site string `json:"site" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.plans.SetTeachingSite(c.Request.Context(), mappingID, req.Site, actorID(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mapping": res})
}
