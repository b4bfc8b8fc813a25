package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/service/task"
	"taskboard/pkg/logger"
)

// UserKey is the gin context key holding the authenticated model.User.
const UserKey = "user"

// CurrentUser returns the user set by the auth middleware, writing a 401 when
// it is missing.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return model.User{}, false
	}
	u, ok := v.(model.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user in context"})
		return model.User{}, false
	}
	return u, true
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, log *zap.Logger, op string, err error) {
	log = logger.WithTrace(c.Request.Context(), log)

	var (
		verr       *task.ValidationError
		forbidden  *task.ForbiddenError
		transition *task.TransitionError
	)
	switch {
	case errors.As(err, &verr):
		log.Warn(op+": validation failed", zap.Any("fields", verr.Fields))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		log.Warn(op+": forbidden", zap.Error(err))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error(op+": failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
