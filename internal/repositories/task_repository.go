package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	model "task-tree-system.com/task-tree-system/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var ErrOptimisticLock = errors.New("optimistic locking conflict")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	task.Version = 1
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID returns the task only if it belongs to ownerID.
func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByOwner returns every task of ownerID in insertion order.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&tasks).Error
	return tasks, err
}

// ListScheduled returns the owner's tasks that carry a due date.
func (r *TaskRepository) ListScheduled(ctx context.Context, ownerID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND due_date IS NOT NULL", ownerID).
		Order("id asc").
		Find(&tasks).Error
	return tasks, err
}

// ListOwnerIDs returns the distinct owners that have at least one scheduled task.
func (r *TaskRepository) ListOwnerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("due_date IS NOT NULL").
		Distinct().
		Order("owner_id asc").
		Pluck("owner_id", &ids).Error
	return ids, err
}

// Update writes the mutable fields of task guarded by its version. OwnerID is
// never written.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.updateVersioned(ctx, task, map[string]interface{}{
		"title":          task.Title,
		"description":    task.Description,
		"due_date":       task.DueDate,
		"weight":         task.Weight,
		"priority_score": task.PriorityScore,
		"parent_id":      task.ParentID,
	})
}

func (r *TaskRepository) UpdateScore(ctx context.Context, task *model.Task) error {
	return r.updateVersioned(ctx, task, map[string]interface{}{
		"priority_score": task.PriorityScore,
	})
}

func (r *TaskRepository) updateVersioned(ctx context.Context, task *model.Task, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND owner_id = ? AND version = ?", task.ID, task.OwnerID, task.Version).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// CreateMany inserts tasks in a single statement, all or nothing.
func (r *TaskRepository) CreateMany(ctx context.Context, tasks []*model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, t := range tasks {
		t.Version = 1
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}
