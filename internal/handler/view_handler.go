package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/view"
	"taskboard/pkg/logger"
)

// ViewHandler serves the read-only derived pages.
type ViewHandler struct {
	tasks  *store.TaskStore
	logger *zap.Logger
	now    func() time.Time
}

func NewViewHandler(tasks *store.TaskStore, logger *zap.Logger, now func() time.Time) *ViewHandler {
	if now == nil {
		now = time.Now
	}
	return &ViewHandler{tasks: tasks, logger: logger, now: now}
}

func (h *ViewHandler) snapshot(c *gin.Context, op string) ([]model.Task, bool) {
	tasks, err := h.tasks.Tasks(c.Request.Context())
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error(op+": failed to fetch tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return nil, false
	}
	return tasks, true
}

// Dashboard handles GET /dashboard
func (h *ViewHandler) Dashboard(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	tasks, ok := h.snapshot(c, "Dashboard")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view.BuildDashboard(tasks, u, h.now()))
}

// Calendar handles GET /calendar?user=&status=
func (h *ViewHandler) Calendar(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	tasks, ok := h.snapshot(c, "Calendar")
	if !ok {
		return
	}

	f := view.DefaultCalendarFilter(u)
	if v := c.Query("user"); v != "" {
		f.UserID = v
	}
	if v := c.Query("status"); v != "" {
		f.Status = v
	}
	c.JSON(http.StatusOK, gin.H{"events": view.CalendarEvents(tasks, u, f)})
}

// Profile handles GET /profile
func (h *ViewHandler) Profile(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	tasks, ok := h.snapshot(c, "Profile")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view.BuildProfile(tasks, u))
}

// AdminTasks handles GET /admin/tasks?q=&status=&user=&tab=
func (h *ViewHandler) AdminTasks(c *gin.Context) {
	tab := view.Tab(c.DefaultQuery("tab", string(view.TabAll)))
	if !tab.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tab"})
		return
	}
	tasks, ok := h.snapshot(c, "AdminTasks")
	if !ok {
		return
	}

	f := view.AdminFilter{
		Search: c.Query("q"),
		Status: c.Query("status"),
		UserID: c.Query("user"),
	}
	c.JSON(http.StatusOK, view.BuildAdminTable(tasks, f, tab))
}
