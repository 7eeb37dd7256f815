package store

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshah/taskflow/backend/internal/apperr"
	"github.com/rshah/taskflow/backend/internal/models"
)

var storeSeq int

// newTestStore opens a fresh in-memory database per test so tests don't
// share state through the shared-cache DSN.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	storeSeq++
	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared&_foreign_keys=on", storeSeq)
	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), email, "$2a$10$fakehashfakehashfakehash")
	require.NoError(t, err)
	return u
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "a@b.com", "hash1")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "a@b.com", "hash2")
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apperr.From(err).Status)
}

func TestGetUserAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, u)

	u, err = s.GetUserByID(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestUpdateUserPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "pw@b.com")

	require.NoError(t, s.UpdateUserPassword(ctx, u.ID, "newhash"))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "newhash", got.PasswordHash)

	err = s.UpdateUserPassword(ctx, 9999, "x")
	require.Equal(t, http.StatusNotFound, apperr.From(err).Status)
}

func TestCreateTaskDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "t@b.com")

	task, err := s.CreateTask(ctx, &models.Task{Title: "x", UserID: u.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)

	// Round-trip: fetching returns identical field values.
	got, err := s.GetTask(ctx, task.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, task.Title, got.Title)
	require.Equal(t, task.Description, got.Description)
	require.Equal(t, task.Status, got.Status)
	require.Equal(t, task.Priority, got.Priority)
}

func TestCreateTaskInvalidEnumRejectedByStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "enum@b.com")

	_, err := s.CreateTask(ctx, &models.Task{Title: "x", Status: "archived", UserID: u.ID})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)
}

func TestOwnershipMasking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := newTestUser(t, s, "owner@b.com")
	other := newTestUser(t, s, "other@b.com")

	task, err := s.CreateTask(ctx, &models.Task{Title: "private", UserID: owner.ID})
	require.NoError(t, err)

	// Another user's lookup is indistinguishable from a missing task.
	got, err := s.GetTask(ctx, task.ID, other.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	title := "stolen"
	_, err = s.UpdateTask(ctx, task.ID, other.ID, models.UpdateTaskRequest{Title: &title})
	require.Equal(t, http.StatusNotFound, apperr.From(err).Status)

	err = s.DeleteTask(ctx, task.ID, other.ID)
	require.Equal(t, http.StatusNotFound, apperr.From(err).Status)

	// Still there for the owner.
	got, err = s.GetTask(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestUpdateTaskNoFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "nofields@b.com")

	task, err := s.CreateTask(ctx, &models.Task{Title: "x", UserID: u.ID})
	require.NoError(t, err)

	_, err = s.UpdateTask(ctx, task.ID, u.ID, models.UpdateTaskRequest{})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)
}

func TestUpdateTaskRefreshesUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "upd@b.com")

	task, err := s.CreateTask(ctx, &models.Task{Title: "before", UserID: u.ID})
	require.NoError(t, err)

	status := models.StatusCompleted
	updated, err := s.UpdateTask(ctx, task.ID, u.ID, models.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, updated.Status)
	require.Equal(t, "before", updated.Title)
	require.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestListTasksFilterAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "list@b.com")

	for i := 0; i < 12; i++ {
		status := models.StatusPending
		if i%3 == 0 {
			status = models.StatusCompleted
		}
		_, err := s.CreateTask(ctx, &models.Task{
			Title:  fmt.Sprintf("task %d", i),
			Status: status,
			UserID: u.ID,
		})
		require.NoError(t, err)
	}

	items, page, err := s.ListTasks(ctx, u.ID, TaskFilter{Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 5)
	require.EqualValues(t, 12, page.TotalCount)
	require.Equal(t, 3, page.TotalPages)
	require.True(t, page.HasNextPage)
	require.False(t, page.HasPrevPage)

	items, page, err = s.ListTasks(ctx, u.ID, TaskFilter{Page: 3, Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.False(t, page.HasNextPage)
	require.True(t, page.HasPrevPage)

	// 0, 3, 6, 9 are completed
	items, page, err = s.ListTasks(ctx, u.ID, TaskFilter{Status: models.StatusCompleted, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 4)
	require.EqualValues(t, 4, page.TotalCount)

	// Filter matching nothing yields an empty slice, not nil.
	items, page, err = s.ListTasks(ctx, u.ID, TaskFilter{Priority: models.PriorityHigh, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Len(t, items, 0)
	require.EqualValues(t, 0, page.TotalCount)
	require.False(t, page.HasNextPage)
	require.False(t, page.HasPrevPage)
}

func TestTaskStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "stats@b.com")

	// No tasks: everything zero, rate guarded against division by zero.
	st, err := s.TaskStats(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, st.TotalTasks)
	require.Equal(t, 0, st.CompletionRate)

	seed := []struct {
		status, priority string
	}{
		{models.StatusCompleted, models.PriorityHigh},
		{models.StatusCompleted, models.PriorityLow},
		{models.StatusPending, models.PriorityMedium},
	}
	for i, tc := range seed {
		_, err := s.CreateTask(ctx, &models.Task{
			Title:    fmt.Sprintf("s%d", i),
			Status:   tc.status,
			Priority: tc.priority,
			UserID:   u.ID,
		})
		require.NoError(t, err)
	}

	st, err = s.TaskStats(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, st.TotalTasks)
	require.EqualValues(t, 1, st.PendingTasks)
	require.EqualValues(t, 2, st.CompletedTasks)
	require.EqualValues(t, 1, st.HighPriorityTasks)
	require.EqualValues(t, 1, st.MediumPriorityTasks)
	require.EqualValues(t, 1, st.LowPriorityTasks)
	require.Equal(t, 67, st.CompletionRate) // round(2/3*100)
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "cascade@b.com")

	task, err := s.CreateTask(ctx, &models.Task{Title: "doomed", UserID: u.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	got, err := s.GetTask(ctx, task.ID, u.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	st, err := s.TaskStats(ctx, u.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, st.TotalTasks)
}

func TestBeginTx(t *testing.T) {
	s := newTestStore(t)
	tx, err := s.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
}
