package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/store"
	"taskboard/pkg/logger"
	"taskboard/pkg/util"
)

// SessionHandler switches the acting user. There are no credentials: any
// roster id may be selected.
type SessionHandler struct {
	users     *store.UserStore
	jwtSecret string
	ttl       time.Duration
	logger    *zap.Logger
}

func NewSessionHandler(users *store.UserStore, jwtSecret string, ttl time.Duration, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{users: users, jwtSecret: jwtSecret, ttl: ttl, logger: logger}
}

// Switch handles POST /session
func (h *SessionHandler) Switch(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	u, ok, err := h.users.User(ctx, req.UserID)
	if err != nil {
		log.Error("Switch: failed to load user", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := h.users.SwitchUser(ctx, u.ID); err != nil {
		log.Error("Switch: failed", zap.String("user_id", u.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to switch user"})
		return
	}

	token, err := util.GenerateJWT(u.ID, h.jwtSecret, h.ttl)
	if err != nil {
		log.Error("Switch: failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// Get handles GET /session. user is the caller from the token; selected is
// the process-wide pick last made through POST /session.
func (h *SessionHandler) Get(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "selected": h.users.Current()})
}
