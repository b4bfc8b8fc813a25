package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/store"
	"taskboard/pkg/logger"
)

type UserHandler struct {
	users  *store.UserStore
	logger *zap.Logger
}

func NewUserHandler(users *store.UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.Users(c.Request.Context())
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("ListUsers: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateMe handles PUT /users/me. The role cannot be changed here.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	log := logger.WithTrace(c.Request.Context(), h.logger)

	var req struct {
		FullName     string `json:"full_name" binding:"required"`
		MobileNumber string `json:"mobile_number"`
		ProfilePhoto string `json:"profile_photo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("UpdateMe: invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u.FullName = req.FullName
	u.MobileNumber = req.MobileNumber
	u.ProfilePhoto = req.ProfilePhoto
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Error("UpdateMe: failed", zap.String("user_id", u.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
