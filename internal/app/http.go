package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpserver "github.com/yungbote/qualiopi-backend/internal/http"
	httpH "github.com/yungbote/qualiopi-backend/internal/http/handlers"
	httpMW "github.com/yungbote/qualiopi-backend/internal/http/middleware"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, db *gorm.DB, metrics *observability.Metrics, s Services) *gin.Engine {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		Metrics:            metrics,
		IdentityMiddleware: httpMW.NewIdentityMiddleware(log, cfg.JWTSecretKey),
		HealthHandler:      httpH.NewHealthHandler(pinger, s.Health),
		PlanHandler:        httpH.NewPlanHandler(s.Plan),
		MilestoneHandler:   httpH.NewMilestoneHandler(s.Milestones),
		GovernanceHandler:  httpH.NewGovernanceHandler(s.Governance),
		SigningHandler:     httpH.NewSigningHandler(s.Signing),
	})
}
