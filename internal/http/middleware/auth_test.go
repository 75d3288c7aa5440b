package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/platform/ctxutil"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub, role string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func newGatedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewIdentityMiddleware(logger.NewNop(), testSecret)
	r := gin.New()
	r.Use(m.RequireIdentity())
	r.POST("/gated", m.RequireRole(roles...), func(c *gin.Context) {
		id := ctxutil.GetIdentity(c.Request.Context())
		c.String(http.StatusOK, id.UserID.String())
	})
	return r
}

func TestIdentityMiddleware(t *testing.T) {
	user := uuid.New()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad signature", signToken(t, "other", user.String(), "ADMIN", future), http.StatusUnauthorized},
		{"expired", signToken(t, testSecret, user.String(), "ADMIN", time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"bad subject", signToken(t, testSecret, "nobody", "ADMIN", future), http.StatusUnauthorized},
		{"wrong role", signToken(t, testSecret, user.String(), "APPRENTICE", future), http.StatusForbidden},
		{"allowed role", signToken(t, testSecret, user.String(), "tutor", future), http.StatusOK},
	}
	r := newGatedRouter("TUTOR", "ADMIN")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/gated", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != user.String() {
				t.Fatalf("identity not attached: %q", rec.Body.String())
			}
		})
	}
}
