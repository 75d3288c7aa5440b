package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// Metrics is the process-wide Prometheus surface. A nil *Metrics is valid and
// records nothing, so callers never branch on whether metrics are enabled.
type Metrics struct {
	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	healthScores      *prometheus.HistogramVec
	sweepContracts    prometheus.Counter
	sweepNotification *prometheus.CounterVec
	batchSigned       prometheus.Counter

	activityTime *prometheus.HistogramVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge

	registry *prometheus.Registry
	interval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init registers every collector once. scrape is how often the DB and Redis
// collectors sample; zero means 10s.
func Init(enabled bool, scrape time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics(prometheus.NewRegistry(), scrape)
	})
	return instance
}

func newMetrics(reg *prometheus.Registry, scrape time.Duration) *Metrics {
	if scrape <= 0 {
		scrape = 10 * time.Second
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		interval: scrape,

		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualiopi_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "qualiopi_api_inflight_requests",
			Help: "In-flight API requests.",
		}),

		aggregateOps: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualiopi_aggregate_operation_duration_seconds",
			Help:    "Aggregate write duration by operation and outcome code.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"operation", "status"}),
		aggregateConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_aggregate_conflicts_total",
			Help: "Aggregate writes rejected by a concurrency guard.",
		}, []string{"operation"}),
		aggregateRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_aggregate_retries_total",
			Help: "Aggregate writes that failed with a retryable error.",
		}, []string{"operation"}),

		healthScores: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualiopi_contract_health_score",
			Help:    "Computed contract health scores by tier.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"status"}),
		sweepContracts: f.NewCounter(prometheus.CounterOpts{
			Name: "qualiopi_sweep_contracts_scanned_total",
			Help: "Contracts scanned by the milestone sweep.",
		}),
		sweepNotification: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_sweep_notifications_total",
			Help: "Notifications emitted by the milestone sweep by type.",
		}, []string{"type"}),
		batchSigned: f.NewCounter(prometheus.CounterOpts{
			Name: "qualiopi_batch_signed_evaluations_total",
			Help: "Evaluations signed through batch signature.",
		}),

		activityTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualiopi_worker_activity_duration_seconds",
			Help:    "Temporal activity duration by activity and status.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"activity", "status"}),

		dbStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "qualiopi_db_pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "qualiopi_redis_up",
			Help: "1 when the last Redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Name: "qualiopi_redis_ping_seconds",
			Help: "Latency of the last successful Redis ping.",
		}),
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(orUnknown(name), orUnknown(status)).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(orUnknown(name)).Inc()
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(orUnknown(name)).Inc()
}

func (m *Metrics) ObserveHealthScore(status string, score int) {
	if m == nil {
		return
	}
	m.healthScores.WithLabelValues(orUnknown(status)).Observe(float64(score))
}

func (m *Metrics) ObserveSweep(contracts int, emittedByType map[string]int) {
	if m == nil {
		return
	}
	m.sweepContracts.Add(float64(contracts))
	for typ, n := range emittedByType {
		m.sweepNotification.WithLabelValues(orUnknown(typ)).Add(float64(n))
	}
}

func (m *Metrics) AddBatchSigned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.batchSigned.Add(float64(n))
}

func (m *Metrics) ObserveActivity(activityName, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.activityTime.WithLabelValues(orUnknown(activityName), orUnknown(status)).Observe(dur.Seconds())
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

// StartRedisCollector pings through the caller's client; it does not own it.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
