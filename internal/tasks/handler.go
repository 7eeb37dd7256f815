package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/auth"
	"github.com/rshah/taskflow/backend/internal/models"
	"github.com/rshah/taskflow/backend/internal/respond"
	"github.com/rshah/taskflow/backend/internal/store"
	"github.com/rshah/taskflow/backend/internal/validate"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	GetTask(ctx context.Context, id, userID int64) (*models.Task, error)
	ListTasks(ctx context.Context, userID int64, f store.TaskFilter) ([]models.Task, models.Pagination, error)
	UpdateTask(ctx context.Context, id, userID int64, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id, userID int64) error
	TaskStats(ctx context.Context, userID int64) (*models.TaskStats, error)
}

// Handler holds task HTTP handlers. Ownership checks live in the store:
// a task that exists but belongs to another user is reported the same way
// as one that doesn't exist at all.
type Handler struct {
	tasks      TaskStore
	production bool
}

func NewHandler(tasks TaskStore, production bool) *Handler {
	return &Handler{tasks: tasks, production: production}
}

// taskID parses the {id} URL parameter.
func taskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.NotFound("Task not found")
	}
	return id, nil
}

// List returns one page of the user's tasks, optionally filtered by
// status and priority.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	priority := q.Get("priority")

	rules := append(
		validate.EnumRules("status", status, models.Statuses),
		validate.EnumRules("priority", priority, models.Priorities)...,
	)
	if err := validate.Run(rules); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	page, limit, err := validate.Pagination(q)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	items, pagination, err := h.tasks.ListTasks(r.Context(), auth.UserIDFrom(r.Context()), store.TaskFilter{
		Status:   status,
		Priority: priority,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       items,
		"pagination": pagination,
	})
}

// Stats returns the aggregate task statistics for the current user.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.TaskStats(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	respond.Data(w, http.StatusOK, stats)
}

// Get returns a single task by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id, auth.UserIDFrom(r.Context()))
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	if task == nil {
		apperr.Write(w, r, apperr.NotFound("Task not found"), h.production)
		return
	}
	respond.Data(w, http.StatusOK, task)
}

// Create validates and inserts a new task for the current user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, apperr.BadRequest("Invalid request body"), h.production)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	rules := validate.TitleRules(req.Title)
	rules = append(rules, validate.DescriptionRules(req.Description)...)
	rules = append(rules, validate.EnumRules("status", req.Status, models.Statuses)...)
	rules = append(rules, validate.EnumRules("priority", req.Priority, models.Priorities)...)
	if err := validate.Run(rules); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		UserID:      auth.UserIDFrom(r.Context()),
	})
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	respond.Data(w, http.StatusCreated, task)
}

// Update applies a partial update. A body with no updatable field is a
// 400, never a silent success.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, r, apperr.BadRequest("Invalid request body"), h.production)
		return
	}

	var rules []validate.Rule
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
		rules = append(rules, validate.TitleRules(trimmed)...)
	}
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		req.Description = &trimmed
		rules = append(rules, validate.DescriptionRules(trimmed)...)
	}
	if req.Status != nil {
		rules = append(rules, validate.EnumRules("status", *req.Status, models.Statuses)...)
	}
	if req.Priority != nil {
		rules = append(rules, validate.EnumRules("priority", *req.Priority, models.Priorities)...)
	}
	if err := validate.Run(rules); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, auth.UserIDFrom(r.Context()), req)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	respond.Data(w, http.StatusOK, task)
}

// Delete removes a task.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id, auth.UserIDFrom(r.Context())); err != nil {
		apperr.Write(w, r, err, h.production)
		return
	}
	respond.Message(w, http.StatusOK, "Task deleted")
}
