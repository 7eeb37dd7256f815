package models

import "time"

// Task status values. Enforced by a CHECK constraint in the tasks table.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task priority values. Enforced by a CHECK constraint in the tasks table.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Statuses and Priorities list the allowed enum values in display order.
var (
	Statuses   = []string{StatusPending, StatusCompleted}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

// Task represents a row in the tasks table.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest is the JSON body for POST /api/tasks.
// Status and Priority fall back to their defaults when omitted.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest is the JSON body for PUT /api/tasks/{id}. All fields
// are optional; at least one must be present.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// Pagination describes the page window returned by task listings.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// TaskStats aggregates a user's tasks by status and priority.
// CompletionRate is round(100*completed/total), 0 when the user has no tasks.
type TaskStats struct {
	TotalTasks          int64 `json:"totalTasks"`
	PendingTasks        int64 `json:"pendingTasks"`
	CompletedTasks      int64 `json:"completedTasks"`
	HighPriorityTasks   int64 `json:"highPriorityTasks"`
	MediumPriorityTasks int64 `json:"mediumPriorityTasks"`
	LowPriorityTasks    int64 `json:"lowPriorityTasks"`
	CompletionRate      int   `json:"completionRate"`
}
