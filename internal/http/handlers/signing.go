package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/platform/apierr"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type SigningHandler struct {
	signing services.SigningService
}

func NewSigningHandler(signing services.SigningService) *SigningHandler {
	return &SigningHandler{signing: signing}
}

// POST /api/signatures/batch
// body: { "frameworkId": "...", "apprenticeIds": ["..."] }
// The validator is always the caller.
func (h *SigningHandler) BatchSign(c *gin.Context) {
	validator := actorID(c)
	if validator == nil {
		response.RespondErr(c, apierr.Unauthorized(errors.New("missing identity")))
		return
	}
	var req struct {
		FrameworkID   uuid.UUID   `json:"frameworkId" binding:"required"`
		ApprenticeIDs []uuid.UUID `json:"apprenticeIds" binding:"required,min=1"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := h.signing.BatchSign(c.Request.Context(), services.BatchSignInput{
		FrameworkID:   req.FrameworkID,
		ApprenticeIDs: req.ApprenticeIDs,
		ValidatorID:   *validator,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": res})
}
