package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/platform/ctxutil"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type GovernanceHandler struct {
	governance services.GovernanceService
}

func NewGovernanceHandler(governance services.GovernanceService) *GovernanceHandler {
	return &GovernanceHandler{governance: governance}
}

// filter reads the query filters. Callers bound to a tenant only ever see
// that tenant, whatever they ask for; admins may pick any.
func (h *GovernanceHandler) filter(c *gin.Context) (services.GovernanceFilter, error) {
	f, err := services.ParseGovernanceFilter(c.Query("frameworkId"), c.Query("trainerId"), c.Query("tenantId"))
	if err != nil {
		return f, err
	}
	if id := ctxutil.GetIdentity(c.Request.Context()); id != nil && id.TenantID != nil && id.Role != compliance.RoleAdmin {
		tenant := *id.TenantID
		f.TenantID = &tenant
	}
	return f, nil
}

// GET /api/governance/kpis
func (h *GovernanceHandler) KPIs(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	k, err := h.governance.KPIs(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"kpis": k})
}

// GET /api/governance/health
func (h *GovernanceHandler) HealthOverview(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	rows, err := h.governance.HealthOverview(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": rows})
}

// GET /api/governance/export
// The CSV is buffered so a failure midway still yields a JSON error.
func (h *GovernanceHandler) Export(c *gin.Context) {
	f, err := h.filter(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.governance.ExportNonCompliant(c.Request.Context(), f, &buf); err != nil {
		response.RespondErr(c, err)
		return
	}
	name := fmt.Sprintf("non-compliant-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
