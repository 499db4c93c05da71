package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	"task-tree-system.com/task-tree-system/internal/hierarchy"
	model "task-tree-system.com/task-tree-system/internal/models"
	"task-tree-system.com/task-tree-system/internal/priority"
	repository "task-tree-system.com/task-tree-system/internal/repositories"
)

type TaskService struct {
	repo *repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateTask stores a new task for ownerID and returns it as a tree.
func (s *TaskService) CreateTask(ctx context.Context, ownerID uint, in dto.TaskInput) (hierarchy.Node, error) {
	if in.ParentID != nil {
		if err := s.checkParent(ctx, ownerID, *in.ParentID); err != nil {
			return hierarchy.Node{}, err
		}
	}

	task := s.newTask(ownerID, in)
	if err := s.repo.Create(ctx, task); err != nil {
		return hierarchy.Node{}, fmt.Errorf("create task: %w", err)
	}

	return s.tree(ctx, *task)
}

func (s *TaskService) newTask(ownerID uint, in dto.TaskInput) *model.Task {
	task := &model.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     utc(in.DueDate),
		Weight:      in.Weight,
		OwnerID:     ownerID,
		ParentID:    in.ParentID,
	}
	if task.Weight == 0 {
		task.Weight = 1
	}
	s.rescore(task)
	return task
}

// UpdateTask applies patch to the task and recomputes its score from the
// resulting weight and due date.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id uint, patch dto.TaskPatch) (hierarchy.Node, error) {
	task, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return hierarchy.Node{}, err
	}

	if patch.Title.Set && patch.Title.Value != nil {
		task.Title = strings.TrimSpace(*patch.Title.Value)
	}
	if patch.Description.Set {
		task.Description = patch.Description.Value
	}
	if patch.DueDate.Set {
		task.DueDate = utc(patch.DueDate.Value)
	}
	if patch.Weight.Set && patch.Weight.Value != nil {
		task.Weight = *patch.Weight.Value
	}
	if patch.ParentID.Set {
		if patch.ParentID.Value != nil {
			if err := s.checkMove(ctx, ownerID, task.ID, *patch.ParentID.Value); err != nil {
				return hierarchy.Node{}, err
			}
		}
		task.ParentID = patch.ParentID.Value
	}

	s.rescore(task)

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return hierarchy.Node{}, apperrors.ErrOptimisticLock
		}
		return hierarchy.Node{}, fmt.Errorf("update task %d: %w", id, err)
	}

	return s.tree(ctx, *task)
}

// DeleteTask removes a single task. Its subtasks keep their parent_id.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id uint) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, id uint) (hierarchy.Node, error) {
	task, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return hierarchy.Node{}, err
	}
	return s.tree(ctx, *task)
}

// ListTree returns the owner's root trees, followed by the trees of orphaned
// tasks when includeOrphans is set.
func (s *TaskService) ListTree(ctx context.Context, ownerID uint, includeOrphans bool) ([]hierarchy.Node, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	ix := hierarchy.NewIndex(tasks)
	roots, err := ix.Roots()
	if err != nil {
		return nil, cycleError(err)
	}

	if includeOrphans {
		for _, o := range ix.Orphans() {
			n, err := ix.Build(o)
			if err != nil {
				return nil, cycleError(err)
			}
			roots = append(roots, n)
		}
	}

	return roots, nil
}

func (s *TaskService) TopUrgent(ctx context.Context, ownerID uint, limit int) ([]hierarchy.Node, error) {
	if limit < 0 {
		return nil, apperrors.ErrInvalidLimit
	}

	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	nodes, err := hierarchy.TopUrgent(tasks, limit)
	if err != nil {
		return nil, cycleError(err)
	}
	return nodes, nil
}

// AddSubtasks stores every input under parentID in one insert and returns
// the parent's tree.
func (s *TaskService) AddSubtasks(ctx context.Context, ownerID, parentID uint, inputs []dto.TaskInput) (hierarchy.Node, error) {
	parent, err := s.repo.FindByID(ctx, ownerID, parentID)
	if err != nil {
		return hierarchy.Node{}, err
	}

	tasks := make([]*model.Task, 0, len(inputs))
	for _, in := range inputs {
		in.ParentID = &parent.ID
		task := s.newTask(ownerID, in)
		if task.Title == "" {
			return hierarchy.Node{}, apperrors.ErrTaskTitleRequired
		}
		tasks = append(tasks, task)
	}

	if err := s.repo.CreateMany(ctx, tasks); err != nil {
		return hierarchy.Node{}, fmt.Errorf("create subtasks of %d: %w", parentID, err)
	}

	return s.tree(ctx, *parent)
}

func (s *TaskService) FindTask(ctx context.Context, ownerID, id uint) (*model.Task, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *TaskService) Now() time.Time {
	return s.now()
}

func (s *TaskService) rescore(task *model.Task) {
	task.PriorityScore = priority.Score(task.Weight, task.DueDate, s.now())
}

func (s *TaskService) tree(ctx context.Context, root model.Task) (hierarchy.Node, error) {
	tasks, err := s.repo.ListByOwner(ctx, root.OwnerID)
	if err != nil {
		return hierarchy.Node{}, fmt.Errorf("list tasks: %w", err)
	}

	node, err := hierarchy.NewIndex(tasks).Build(root)
	if err != nil {
		return hierarchy.Node{}, cycleError(err)
	}
	return node, nil
}

func (s *TaskService) checkParent(ctx context.Context, ownerID, parentID uint) error {
	if _, err := s.repo.FindByID(ctx, ownerID, parentID); err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return apperrors.ErrParentNotFound
		}
		return err
	}
	return nil
}

// checkMove rejects re-parenting a task under itself or its own subtree.
func (s *TaskService) checkMove(ctx context.Context, ownerID, id, parentID uint) error {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	ix := hierarchy.NewIndex(tasks)
	if _, ok := ix.Lookup(parentID); !ok {
		return apperrors.ErrParentNotFound
	}
	if ix.Descendant(id, parentID) {
		return apperrors.ErrParentCycle
	}
	return nil
}

func cycleError(err error) error {
	if errors.Is(err, hierarchy.ErrCycle) {
		return fmt.Errorf("%w: %v", apperrors.ErrCyclicHierarchy, err)
	}
	return err
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
