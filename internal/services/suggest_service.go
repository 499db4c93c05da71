package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	"task-tree-system.com/task-tree-system/internal/hierarchy"
	"task-tree-system.com/task-tree-system/internal/llm"
	"task-tree-system.com/task-tree-system/internal/queue"
)

// SuggestService asks the language model for a task breakdown, holding one
// request token per call. Concurrent requests for the same goal share a call.
type SuggestService struct {
	llm          llm.Suggester
	tokenManager queue.TokenManager
	tasks        *TaskService
	inflight     singleflight.Group
}

// NewSuggestService returns a service that reports ErrLLMDisabled when
// suggester is nil.
func NewSuggestService(suggester llm.Suggester, tokenManager queue.TokenManager, tasks *TaskService) *SuggestService {
	return &SuggestService{
		llm:          suggester,
		tokenManager: tokenManager,
		tasks:        tasks,
	}
}

func (s *SuggestService) Suggest(ctx context.Context, goal string) ([]dto.Suggestion, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, apperrors.ErrGoalRequired
	}
	if s.llm == nil {
		return nil, apperrors.ErrLLMDisabled
	}

	// the shared call outlives any single caller; the client timeout bounds it.
	callCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(goal, func() (any, error) {
		if err := s.acquireToken(callCtx); err != nil {
			return nil, err
		}
		defer s.releaseToken()

		return s.llm.SuggestSubtasks(callCtx, goal)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug("suggestion shared with a concurrent request", "goal", goal)
		}
		suggestions, _ := res.Val.([]dto.Suggestion)
		return append([]dto.Suggestion(nil), suggestions...), nil
	}
}

// Breakdown suggests steps for an existing task and stores them as its
// subtasks, due deadline_days from now.
func (s *SuggestService) Breakdown(ctx context.Context, ownerID, taskID uint) (hierarchy.Node, error) {
	task, err := s.tasks.FindTask(ctx, ownerID, taskID)
	if err != nil {
		return hierarchy.Node{}, err
	}

	goal := task.Title
	if task.Description != nil && strings.TrimSpace(*task.Description) != "" {
		goal += "\n" + strings.TrimSpace(*task.Description)
	}

	suggestions, err := s.Suggest(ctx, goal)
	if err != nil {
		return hierarchy.Node{}, err
	}

	now := s.tasks.Now()
	inputs := make([]dto.TaskInput, 0, len(suggestions))
	for _, sg := range suggestions {
		due := now.AddDate(0, 0, sg.DeadlineDays)
		inputs = append(inputs, dto.TaskInput{
			Title:   sg.Title,
			DueDate: &due,
			Weight:  sg.Weight,
		})
	}

	log.Info("storing suggested subtasks", "owner", ownerID, "task", taskID, "count", len(inputs))
	return s.tasks.AddSubtasks(ctx, ownerID, taskID, inputs)
}

func (s *SuggestService) acquireToken(ctx context.Context) error {
	if err := s.tokenManager.AcquireToken(ctx); err != nil {
		if errors.Is(err, queue.ErrNoTokenAvailable) {
			return apperrors.ErrLLMBusy
		}
		return err
	}
	return nil
}

func (s *SuggestService) releaseToken() {
	// the request context may already be cancelled; the token must still go back.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.tokenManager.ReleaseToken(ctx); err != nil {
		log.Error("failed to release llm request token", "err", err)
	}
}
