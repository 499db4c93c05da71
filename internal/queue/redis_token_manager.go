package queue

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/rueidis"
)

// RedisTokenManager keeps LLM request tokens as elements of a Redis list so
// every API instance shares one concurrency limit per model.
type RedisTokenManager struct {
	client rueidis.Client
	key    string
}

func NewRedisTokenManager(client rueidis.Client, keyPrefix, model string) *RedisTokenManager {
	return &RedisTokenManager{
		client: client,
		key:    TokenKey(keyPrefix, model),
	}
}

func (r *RedisTokenManager) Key() string {
	return r.key
}

func (r *RedisTokenManager) AcquireToken(ctx context.Context) error {
	err := r.client.Do(ctx, r.client.B().Lpop().Key(r.key).Build()).Error()
	switch {
	case err == nil:
		return nil
	case rueidis.IsRedisNil(err):
		log.Debug("llm request tokens exhausted", "key", r.key)
		return ErrNoTokenAvailable
	default:
		return fmt.Errorf("take llm token from %s: %w", r.key, err)
	}
}

func (r *RedisTokenManager) ReleaseToken(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Rpush().Key(r.key).Element("1").Build()).Error(); err != nil {
		return fmt.Errorf("return llm token to %s: %w", r.key, err)
	}
	return nil
}

// InitializeTokens resets the list to count tokens. Requests in flight on
// other instances keep their tokens and push them back on release.
func (r *RedisTokenManager) InitializeTokens(ctx context.Context, count int) error {
	if err := r.client.Do(ctx, r.client.B().Del().Key(r.key).Build()).Error(); err != nil {
		return fmt.Errorf("reset llm tokens %s: %w", r.key, err)
	}
	if count <= 0 {
		return nil
	}

	elements := make([]string, count)
	for i := range elements {
		elements[i] = "1"
	}
	if err := r.client.Do(ctx, r.client.B().Rpush().Key(r.key).Element(elements...).Build()).Error(); err != nil {
		return fmt.Errorf("seed llm tokens %s: %w", r.key, err)
	}
	return nil
}
