package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	httpH "github.com/yungbote/qualiopi-backend/internal/http/handlers"
	httpMW "github.com/yungbote/qualiopi-backend/internal/http/middleware"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	IdentityMiddleware *httpMW.IdentityMiddleware

	HealthHandler     *httpH.HealthHandler
	PlanHandler       *httpH.PlanHandler
	MilestoneHandler  *httpH.MilestoneHandler
	GovernanceHandler *httpH.GovernanceHandler
	SigningHandler    *httpH.SigningHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.IdentityMiddleware != nil {
		api.Use(cfg.IdentityMiddleware.RequireIdentity())
	}
	gate := func(roles ...string) gin.HandlerFunc {
		if cfg.IdentityMiddleware == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return cfg.IdentityMiddleware.RequireRole(roles...)
	}

	// Plan
	if cfg.PlanHandler != nil {
		api.POST("/contracts/:id/journey", cfg.PlanHandler.InitializeJourney)
		api.POST("/contracts/:id/lock", gate(compliance.RoleTutor, compliance.RoleAdmin), cfg.PlanHandler.LockTSF)
		api.GET("/contracts/:id/plan", cfg.PlanHandler.GetPlan)
		api.POST("/plan-mappings/:id/teaching-site/cycle", cfg.PlanHandler.CycleTeachingSite)
		api.PUT("/plan-mappings/:id/teaching-site", cfg.PlanHandler.SetTeachingSite)
	}

	// Milestones
	if cfg.MilestoneHandler != nil {
		api.POST("/contracts/:id/milestones/sync", cfg.MilestoneHandler.SyncMilestones)
		api.POST("/milestones/:id/complete", cfg.MilestoneHandler.CompleteMilestone)
		api.POST("/milestones/sweep", gate(compliance.RoleAdmin), cfg.MilestoneHandler.Sweep)
	}

	// Health scores
	if cfg.HealthHandler != nil {
		api.GET("/contracts/:id/health", cfg.HealthHandler.ContractHealth)
	}

	// Governance
	if cfg.GovernanceHandler != nil {
		api.GET("/governance/kpis", cfg.GovernanceHandler.KPIs)
		api.GET("/governance/health", cfg.GovernanceHandler.HealthOverview)
		api.GET("/governance/export", cfg.GovernanceHandler.Export)
	}

	// Signatures
	if cfg.SigningHandler != nil {
		api.POST("/signatures/batch", gate(compliance.RoleTrainer, compliance.RoleAdmin), cfg.SigningHandler.BatchSign)
	}

	return r
}
