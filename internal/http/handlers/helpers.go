package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/platform/apierr"
	"github.com/yungbote/qualiopi-backend/internal/platform/ctxutil"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.BadRequest("invalid_"+name, fmt.Errorf("%s must be a uuid", name))
	}
	return id, nil
}

// actorID is the caller's user id, or nil when the route is not behind the
// identity middleware.
func actorID(c *gin.Context) *uuid.UUID {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil || id.UserID == uuid.Nil {
		return nil
	}
	uid := id.UserID
	return &uid
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_request", err)
	}
	return nil
}
