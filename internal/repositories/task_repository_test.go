package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	model "task-tree-system.com/task-tree-system/internal/models"
	"task-tree-system.com/task-tree-system/internal/testutil"
)

func newTask(owner uint, title string, parent *uint, due *time.Time) *model.Task {
	return &model.Task{Title: title, Weight: 1, OwnerID: owner, ParentID: parent, DueDate: due}
}

func TestTaskRepository_CreateAndFind(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	task := newTask(1, "write tests", nil, nil)
	require.NoError(t, repo.Create(ctx, task))
	assert.NotZero(t, task.ID)
	assert.Equal(t, uint(1), task.Version)

	found, err := repo.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "write tests", found.Title)

	_, err = repo.FindByID(ctx, 2, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTaskRepository_ListByOwnerKeepsInsertionOrder(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, newTask(1, title, nil, nil)))
	}
	require.NoError(t, repo.Create(ctx, newTask(2, "other", nil, nil)))

	tasks, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "c", tasks[2].Title)
}

func TestTaskRepository_UpdateOptimisticLock(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	task := newTask(1, "draft", nil, nil)
	require.NoError(t, repo.Create(ctx, task))

	stale := *task

	task.Title = "final"
	task.Weight = 3
	require.NoError(t, repo.Update(ctx, task))
	assert.Equal(t, uint(2), task.Version)

	stale.PriorityScore = 99
	assert.ErrorIs(t, repo.UpdateScore(ctx, &stale), ErrOptimisticLock)

	found, err := repo.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", found.Title)
	assert.Equal(t, 3, found.Weight)
	assert.Equal(t, 0, found.PriorityScore)
}

func TestTaskRepository_UpdateClearsNullableFields(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	due := time.Now().Add(time.Hour).UTC()
	desc := "notes"
	parent := newTask(1, "parent", nil, nil)
	require.NoError(t, repo.Create(ctx, parent))

	task := newTask(1, "child", &parent.ID, &due)
	task.Description = &desc
	require.NoError(t, repo.Create(ctx, task))

	task.DueDate = nil
	task.Description = nil
	task.ParentID = nil
	require.NoError(t, repo.Update(ctx, task))

	found, err := repo.FindByID(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Nil(t, found.DueDate)
	assert.Nil(t, found.Description)
	assert.Nil(t, found.ParentID)
}

func TestTaskRepository_UpdateNeverMovesOwner(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	task := newTask(1, "mine", nil, nil)
	require.NoError(t, repo.Create(ctx, task))

	task.OwnerID = 2
	assert.ErrorIs(t, repo.Update(ctx, task), ErrOptimisticLock)

	_, err := repo.FindByID(ctx, 1, task.ID)
	assert.NoError(t, err)
}

func TestTaskRepository_DeleteDoesNotCascade(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	parent := newTask(1, "parent", nil, nil)
	require.NoError(t, repo.Create(ctx, parent))
	child := newTask(1, "child", &parent.ID, nil)
	require.NoError(t, repo.Create(ctx, child))

	require.NoError(t, repo.Delete(ctx, 1, parent.ID))
	assert.ErrorIs(t, repo.Delete(ctx, 1, parent.ID), apperrors.ErrTaskNotFound)

	orphan, err := repo.FindByID(ctx, 1, child.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *orphan.ParentID)
}

func TestTaskRepository_ScheduledQueries(t *testing.T) {
	repo := NewTaskRepository(testutil.NewDB(t))
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	require.NoError(t, repo.Create(ctx, newTask(3, "dated", nil, &due)))
	require.NoError(t, repo.Create(ctx, newTask(3, "undated", nil, nil)))
	require.NoError(t, repo.Create(ctx, newTask(1, "dated", nil, &due)))
	require.NoError(t, repo.Create(ctx, newTask(1, "dated again", nil, &due)))
	require.NoError(t, repo.Create(ctx, newTask(2, "undated", nil, nil)))

	owners, err := repo.ListOwnerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, owners)

	scheduled, err := repo.ListScheduled(ctx, 3)
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "dated", scheduled[0].Title)
}
