package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisbus "github.com/yungbote/qualiopi-backend/internal/clients/redis"
	"github.com/yungbote/qualiopi-backend/internal/data/db"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	httpserver "github.com/yungbote/qualiopi-backend/internal/http"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Metrics  *observability.Metrics
	Repos    repos.Set
	Services Services
	Bus      redisbus.NotificationBus
	Router   *gin.Engine

	shutdownOtel func(context.Context) error
}

// New builds everything both binaries share: logger, store, repos, services
// and the router. Nothing is served until Run.
func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics := observability.Init(cfg.MetricsEnabled, cfg.MetricsScrape)
	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := openDB(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	var bus redisbus.NotificationBus
	if cfg.RedisAddr != "" {
		bus, err = redisbus.NewNotificationBus(log, redisbus.BusConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisNotificationChannel,
		})
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init redis notification bus: %w", err)
		}
	} else {
		log.Warn("REDIS_ADDR not set; notifications are stored but not published")
	}

	log.Info("Wiring repos...")
	reposet := repos.NewSet(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, bus, metrics)
	if err != nil {
		if bus != nil {
			_ = bus.Close()
		}
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Metrics:      metrics,
		Repos:        reposet,
		Services:     serviceset,
		Bus:          bus,
		Router:       wireRouter(log, cfg, theDB, metrics, serviceset),
		shutdownOtel: shutdownOtel,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		s, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return s.DB(), nil
	case "postgres", "":
		pg, err := db.NewPostgresService(log, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return pg.DB(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// StartBackground launches the collectors and the notification forwarder.
// They stop with ctx.
func (a *App) StartBackground(ctx context.Context) {
	if a.Metrics != nil {
		if a.Cfg.MetricsAddr != "" {
			a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		}
		if a.Cfg.DBDriver != "sqlite" {
			a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		}
		if a.Bus != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Bus.Client())
		}
	}
	if a.Bus != nil {
		err := a.Bus.StartForwarder(ctx, func(ev redisbus.NotificationEvent) {
			a.Log.Debug("notification published",
				"notification_id", ev.ID.String(),
				"type", ev.Type,
				"recipient_user_id", ev.RecipientID.String(),
			)
		})
		if err != nil {
			a.Log.Warn("notification forwarder not started", "error", err)
		}
	}
}

// Run serves the HTTP API until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required to serve the API")
	}
	srv := &httpserver.Server{Engine: a.Router, Log: a.Log}
	return srv.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Bus != nil {
		_ = a.Bus.Close()
	}
	if a.shutdownOtel != nil {
		_ = a.shutdownOtel(context.Background())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
