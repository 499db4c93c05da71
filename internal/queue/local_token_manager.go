package queue

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LocalTokenManager is the single-process TokenManager used when no Redis
// address is configured.
type LocalTokenManager struct {
	mu   sync.Mutex
	sem  *semaphore.Weighted
	held int
}

func NewLocalTokenManager() *LocalTokenManager {
	return &LocalTokenManager{}
}

func (l *LocalTokenManager) AcquireToken(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sem == nil || !l.sem.TryAcquire(1) {
		return ErrNoTokenAvailable
	}
	l.held++
	return nil
}

// ReleaseToken ignores releases without a matching acquire.
func (l *LocalTokenManager) ReleaseToken(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held == 0 {
		return nil
	}
	l.held--
	l.sem.Release(1)
	return nil
}

func (l *LocalTokenManager) InitializeTokens(ctx context.Context, count int) error {
	if count < 0 {
		count = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sem = semaphore.NewWeighted(int64(count))
	l.held = 0
	return nil
}
