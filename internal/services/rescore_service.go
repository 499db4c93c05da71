package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"task-tree-system.com/task-tree-system/internal/priority"
	repository "task-tree-system.com/task-tree-system/internal/repositories"
)

// RescoreService keeps stored priority scores current as due dates approach.
// Owners are queued and handled by a fixed set of workers; an owner already
// waiting in the queue is not queued twice.
type RescoreService struct {
	queue    chan uint
	wg       sync.WaitGroup
	enqueued sync.Map
	mu       sync.RWMutex
	closed   bool
	repo     *repository.TaskRepository
	now      func() time.Time
}

func NewRescoreService(repo *repository.TaskRepository, workers, queueSize int) *RescoreService {
	p := &RescoreService{
		queue: make(chan uint, queueSize),
		repo:  repo,
		now:   time.Now,
	}

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *RescoreService) Enqueue(ownerID uint) bool {
	ok, _ := p.enqueueIfNotPresent(ownerID)
	return ok
}

// EnqueueAll queues every owner with scheduled tasks and reports how many
// were accepted. It stops early when the queue is full.
func (p *RescoreService) EnqueueAll(ctx context.Context) (int, error) {
	owners, err := p.repo.ListOwnerIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	queued := 0
	for _, id := range owners {
		enqueued, queueFull := p.enqueueIfNotPresent(id)
		if queueFull {
			log.Warn("rescore queue full", "queued", queued, "owners", len(owners))
			break
		}
		if enqueued {
			queued++
		}
	}
	return queued, nil
}

// RescoreOwner recomputes every scheduled task of ownerID and writes the ones
// whose score changed. Tasks modified concurrently are skipped; their writer
// already stored a fresh score.
func (p *RescoreService) RescoreOwner(ctx context.Context, ownerID uint) (int, error) {
	tasks, err := p.repo.ListScheduled(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list scheduled tasks: %w", err)
	}

	now := p.now()
	updated := 0
	for i := range tasks {
		task := &tasks[i]
		score := priority.Score(task.Weight, task.DueDate, now)
		if score == task.PriorityScore {
			continue
		}

		task.PriorityScore = score
		if err := p.repo.UpdateScore(ctx, task); err != nil {
			if errors.Is(err, repository.ErrOptimisticLock) {
				log.Debug("rescore: task changed concurrently", "task", task.ID)
				continue
			}
			return updated, fmt.Errorf("update score of task %d: %w", task.ID, err)
		}
		updated++
	}
	return updated, nil
}

// RescoreAll runs RescoreOwner for every owner on the calling goroutine.
func (p *RescoreService) RescoreAll(ctx context.Context) (int, error) {
	owners, err := p.repo.ListOwnerIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	total := 0
	for _, id := range owners {
		n, err := p.RescoreOwner(ctx, id)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (p *RescoreService) worker(workerID int) {
	defer p.wg.Done()

	log.Debug("rescore worker started", "worker", workerID)

	for ownerID := range p.queue {
		p.handleOwner(workerID, ownerID)
	}

	log.Debug("rescore worker stopped", "worker", workerID)
}

func (p *RescoreService) handleOwner(workerID int, ownerID uint) {
	defer p.untrackEnqueued(ownerID)

	n, err := p.RescoreOwner(context.Background(), ownerID)
	if err != nil {
		log.Error("rescore failed", "worker", workerID, "owner", ownerID, "err", err)
		return
	}
	if n > 0 {
		log.Info("rescored tasks", "worker", workerID, "owner", ownerID, "updated", n)
	}
}

func (p *RescoreService) enqueueIfNotPresent(ownerID uint) (bool, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false, true
	}

	if !p.trackEnqueued(ownerID) {
		return false, false
	}

	select {
	case p.queue <- ownerID:
		return true, false
	default:
		p.untrackEnqueued(ownerID)
		return false, true
	}
}

func (p *RescoreService) trackEnqueued(ownerID uint) bool {
	_, loaded := p.enqueued.LoadOrStore(ownerID, struct{}{})
	return !loaded
}

func (p *RescoreService) untrackEnqueued(ownerID uint) {
	p.enqueued.Delete(ownerID)
}

func (p *RescoreService) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("rescore workers shut down cleanly")
	case <-ctx.Done():
		log.Warn("rescore worker shutdown timed out")
	}
}
