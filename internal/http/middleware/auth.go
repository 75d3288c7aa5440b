package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/http/response"
	"github.com/yungbote/qualiopi-backend/internal/platform/apierr"
	"github.com/yungbote/qualiopi-backend/internal/platform/ctxutil"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// IdentityClaims is what the identity provider signs. Only the subject and
// role are required; tenant is optional.
type IdentityClaims struct {
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

type IdentityMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewIdentityMiddleware(log *logger.Logger, secret string) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware"), secret: []byte(secret)}
}

// RequireIdentity verifies the bearer token and attaches the caller's
// identity to the request context.
func (m *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Abort()
			response.RespondErr(c, apierr.Unauthorized(errors.New("missing or invalid token")))
			return
		}
		id, err := m.parse(token)
		if err != nil {
			m.log.Debug("token rejected", "error", err)
			c.Abort()
			response.RespondErr(c, apierr.Unauthorized(errors.New("missing or invalid token")))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles.
func (m *IdentityMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		id := ctxutil.GetIdentity(c.Request.Context())
		if id == nil {
			c.Abort()
			response.RespondErr(c, apierr.Unauthorized(errors.New("missing identity")))
			return
		}
		if _, ok := allowed[strings.ToUpper(id.Role)]; !ok {
			c.Abort()
			response.RespondErr(c, apierr.Forbidden(fmt.Errorf("role %s may not perform this action", id.Role)))
			return
		}
		c.Next()
	}
}

func (m *IdentityMiddleware) parse(token string) (*ctxutil.Identity, error) {
	claims := &IdentityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	if strings.TrimSpace(claims.Role) == "" {
		return nil, errors.New("missing role")
	}
	id := &ctxutil.Identity{UserID: userID, Role: strings.ToUpper(claims.Role)}
	if claims.TenantID != "" {
		tid, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant: %w", err)
		}
		id.TenantID = &tid
	}
	return id, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
