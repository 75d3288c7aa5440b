package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.ObserveSweep(3, map[string]int{"MILESTONE_OVERDUE": 1})
	m.AddBatchSigned(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: %d", rec.Code)
	}
}

func TestMetricsRecordAndServe(t *testing.T) {
	m := newMetrics(prometheus.NewRegistry(), 0)
	m.ObserveSweep(5, map[string]int{"MILESTONE_OVERDUE": 2, "J45_ESCALATION": 1})
	m.IncAggregateConflict("Compliance.PlanAggregate.InitializeJourney")
	m.AddBatchSigned(0)
	m.AddBatchSigned(7)

	if got := testutil.ToFloat64(m.sweepContracts); got != 5 {
		t.Fatalf("contracts scanned: %v", got)
	}
	if got := testutil.ToFloat64(m.sweepNotification.WithLabelValues("MILESTONE_OVERDUE")); got != 2 {
		t.Fatalf("overdue notifications: %v", got)
	}
	if got := testutil.ToFloat64(m.batchSigned); got != 7 {
		t.Fatalf("batch signed: %v", got)
	}

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "qualiopi_aggregate_conflicts_total") {
		t.Fatalf("scrape output missing conflict counter")
	}
}
