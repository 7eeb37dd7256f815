package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/models"
)

// TaskFilter narrows task listings. Empty Status/Priority match everything.
type TaskFilter struct {
	Status   string
	Priority string
	Page     int
	Limit    int
}

// CreateTask inserts a task, applying the pending/medium defaults when
// status or priority are empty.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Status, t.Priority, t.UserID, now, now,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapErr(err)
	}

	created := *t
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// GetTask returns the task with the given id owned by userID, or
// (nil, nil) when the task does not exist or belongs to someone else.
// Callers cannot distinguish the two cases, so probing for other users'
// task ids reveals nothing.
func (s *Store) GetTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, status, priority, user_id, created_at, updated_at
		 FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// ListTasks returns one page of the user's tasks, newest first, with the
// total count computed over the same filter predicate.
func (s *Store) ListTasks(ctx context.Context, userID int64, f TaskFilter) ([]models.Task, models.Pagination, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, f.Priority)
	}
	predicate := strings.Join(where, " AND ")

	var total int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, predicate), args...,
	).Scan(&total)
	if err != nil {
		return nil, models.Pagination{}, mapErr(err)
	}

	offset := (f.Page - 1) * f.Limit
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, title, description, status, priority, user_id, created_at, updated_at
			 FROM tasks WHERE %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, predicate),
		append(args, f.Limit, offset)...,
	)
	if err != nil {
		return nil, models.Pagination{}, mapErr(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, models.Pagination{}, mapErr(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Pagination{}, mapErr(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(f.Limit)))
	page := models.Pagination{
		Page:        f.Page,
		Limit:       f.Limit,
		TotalCount:  total,
		TotalPages:  totalPages,
		HasNextPage: f.Page < totalPages,
		HasPrevPage: f.Page > 1 && total > 0,
	}
	return tasks, page, nil
}

// UpdateTask applies a partial update to a task the user owns. Only title,
// description, status and priority may change; at least one must be
// present. Ownership mismatch and true absence both report not found.
// updated_at is refreshed on every successful update.
func (s *Store) UpdateTask(ctx context.Context, id, userID int64, req models.UpdateTaskRequest) (*models.Task, error) {
	set := []string{}
	args := []any{}
	if req.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *req.Status)
	}
	if req.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *req.Priority)
	}
	if len(set) == 0 {
		return nil, apperr.BadRequest("No valid fields to update")
	}

	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ? AND user_id = ?`, strings.Join(set, ", ")),
		args...,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, mapErr(err)
	}
	if n == 0 {
		return nil, apperr.NotFound("Task not found")
	}
	return s.GetTask(ctx, id, userID)
}

// DeleteTask removes a task the user owns, with the same not-found
// semantics as UpdateTask.
func (s *Store) DeleteTask(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return apperr.NotFound("Task not found")
	}
	return nil
}

// TaskStats aggregates the user's tasks in a single query.
func (s *Store) TaskStats(ctx context.Context, userID int64) (*models.TaskStats, error) {
	var st models.TaskStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status   = 'pending'   THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status   = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'high'      THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'medium'    THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'low'       THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE user_id = ?`, userID,
	).Scan(&st.TotalTasks, &st.PendingTasks, &st.CompletedTasks,
		&st.HighPriorityTasks, &st.MediumPriorityTasks, &st.LowPriorityTasks)
	if err != nil {
		return nil, mapErr(err)
	}

	if st.TotalTasks > 0 {
		st.CompletionRate = int(math.Round(float64(st.CompletedTasks) / float64(st.TotalTasks) * 100))
	}
	return &st, nil
}
