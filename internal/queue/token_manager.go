// Package queue bounds how many LLM requests run at once. Each request holds
// one token for its duration.
package queue

import (
	"context"
	"errors"
	"strings"
)

type TokenManager interface {
	AcquireToken(ctx context.Context) error

	ReleaseToken(ctx context.Context) error

	InitializeTokens(ctx context.Context, count int) error
}

var ErrNoTokenAvailable = errors.New("no llm request token available")

// TokenKey scopes the token list to one model, so switching LLM_MODEL on a
// shared Redis starts from a fresh budget.
func TokenKey(prefix, model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		return prefix
	}
	return prefix + ":" + model
}
