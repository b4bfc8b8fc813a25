package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskboard/internal/handler"
	"taskboard/internal/store"
	"taskboard/pkg/rbac"
)

type Router struct {
	Engine *gin.Engine
}

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Session *handler.SessionHandler
	Users   *handler.UserHandler
	Tasks   *handler.TaskHandler
	Views   *handler.ViewHandler
}

// ReadinessCheck is pinged by /readyz. Only configured backends get one.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

func NewRouter(h Handlers, users *store.UserStore, jwtSecret string, logger *zap.Logger, checks ...ReadinessCheck) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), RequestLogger(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check.Ping(ctx); err != nil {
				c.JSON(500, gin.H{"status": check.Name + "_not_ready", "error": err.Error()})
				return
			}
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/session", h.Session.Switch)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, users))
	{
		auth.GET("/session", h.Session.Get)

		auth.GET("/users", h.Users.List)
		auth.PUT("/users/me", h.Users.UpdateMe)

		auth.GET("/tasks", h.Tasks.List)
		auth.POST("/tasks", h.Tasks.Create)
		auth.GET("/tasks/:id", h.Tasks.Get)
		auth.PUT("/tasks/:id", h.Tasks.Update)
		auth.DELETE("/tasks/:id", h.Tasks.Delete)
		auth.POST("/tasks/:id/submit", h.Tasks.Submit)
		auth.POST("/tasks/:id/approve", h.Tasks.Approve)
		auth.POST("/tasks/:id/reject", h.Tasks.Reject)

		auth.GET("/dashboard", h.Views.Dashboard)
		auth.GET("/calendar", h.Views.Calendar)
		auth.GET("/profile", h.Views.Profile)

		admin := auth.Group("/admin")
		admin.Use(RequirePermission(rbac.PermissionAdminPanel, AdminPanelDenied))
		admin.GET("/tasks", h.Views.AdminTasks)
	}

	return &Router{Engine: r}
}
