package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	httpH "github.com/yungbote/qualiopi-backend/internal/http/handlers"
	httpMW "github.com/yungbote/qualiopi-backend/internal/http/middleware"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type stubMilestones struct{ sweeps int }

func (s *stubMilestones) SyncMilestones(context.Context, uuid.UUID) (domainagg.SyncMilestonesResult, error) {
	return domainagg.SyncMilestonesResult{}, nil
}

func (s *stubMilestones) CompleteMilestone(context.Context, uuid.UUID, *uuid.UUID) (domainagg.CompleteMilestoneResult, error) {
	return domainagg.CompleteMilestoneResult{}, nil
}

func (s *stubMilestones) SweepMilestones(context.Context, time.Time) (services.SweepResult, error) {
	s.sweeps++
	return services.SweepResult{}, nil
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, httpMW.IdentityClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString([]byte("router-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func TestRouter_SweepIsAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	ms := &stubMilestones{}
	r := NewRouter(RouterConfig{
		Log:                log,
		IdentityMiddleware: httpMW.NewIdentityMiddleware(log, "router-secret"),
		HealthHandler:      httpH.NewHealthHandler(nil, nil),
		MilestoneHandler:   httpH.NewMilestoneHandler(ms),
	})

	cases := []struct {
		auth   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{bearer(t, "TRAINER"), http.StatusForbidden},
		{bearer(t, "ADMIN"), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/milestones/sweep", nil)
		if tc.auth != "" {
			req.Header.Set("Authorization", tc.auth)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("auth=%q: got %d want %d (%s)", tc.auth, rec.Code, tc.status, rec.Body.String())
		}
	}
	if ms.sweeps != 1 {
		t.Fatalf("expected exactly one sweep, got %d", ms.sweeps)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("healthcheck: %d %v", rec.Code, rec.Header())
	}
}
