package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/service/task"
	"taskboard/pkg/logger"
)

// IdempotencyHeader lets clients retry POST /tasks without creating duplicates.
const IdempotencyHeader = "Idempotency-Key"

// Deduper is satisfied by util.Deduper.
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
}

type TaskHandler struct {
	svc    *task.Service
	dedup  Deduper
	logger *zap.Logger
}

// NewTaskHandler builds the handler. dedup may be nil, in which case the
// idempotency header is ignored.
func NewTaskHandler(svc *task.Service, dedup Deduper, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, dedup: dedup, logger: logger}
}

type taskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	Deadline    time.Time `json:"deadline"`
	Photos      []string  `json:"photos"`
	UserID      string    `json:"user_id"`
}

func (r taskRequest) input() task.Input {
	return task.Input{
		Title:       r.Title,
		Description: r.Description,
		Progress:    r.Progress,
		Deadline:    r.Deadline,
		Photos:      r.Photos,
	}
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	tasks, err := h.svc.List(c.Request.Context(), u)
	if err != nil {
		writeError(c, h.logger, "ListTasks", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := logger.WithTrace(ctx, h.logger)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("CreateTask: invalid request", zap.String("user_id", u.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if key := c.GetHeader(IdempotencyHeader); key != "" && h.dedup != nil {
		if !h.dedup.AcquireOnce(ctx, "task.create:"+u.ID, key) {
			log.Info("CreateTask: duplicate request", zap.String("user_id", u.ID), zap.String("idempotency_key", key))
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate request"})
			return
		}
	}

	created, err := h.svc.Create(ctx, u, req.UserID, req.input())
	if err != nil {
		writeError(c, h.logger, "CreateTask", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": created, "message": "Task created successfully"})
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "GetTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

// Update handles PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := h.svc.Edit(c.Request.Context(), u, c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.logger, "UpdateTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "message": "Task updated successfully"})
}

// Submit handles POST /tasks/:id/submit
func (h *TaskHandler) Submit(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	t, err := h.svc.Submit(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "SubmitTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "message": "Task submitted for approval"})
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

// Approve handles POST /tasks/:id/approve
func (h *TaskHandler) Approve(c *gin.Context) {
	h.decide(c, "ApproveTask", h.svc.Approve, "Task approved")
}

// Reject handles POST /tasks/:id/reject
func (h *TaskHandler) Reject(c *gin.Context) {
	h.decide(c, "RejectTask", h.svc.Reject, "Task rejected")
}

func (h *TaskHandler) decide(c *gin.Context, op string,
	apply func(context.Context, model.User, string, string) (model.Task, error), message string) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	// an empty body means an empty comment, chunked or not
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	t, err := apply(c.Request.Context(), u, c.Param("id"), req.Comment)
	if err != nil {
		writeError(c, h.logger, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "message": message})
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		writeError(c, h.logger, "DeleteTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
