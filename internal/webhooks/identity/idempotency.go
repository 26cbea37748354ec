package identitywebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mintalist/mintalist-backend/pkg/redis"
)

const DefaultDedupeTTL = 72 * time.Hour

// IdempotencyGuard remembers delivered message ids so retries are no-ops.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if ttl == 0 {
		ttl = DefaultDedupeTTL
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{store: store, ttl: ttl, scope: scope}, nil
}

// CheckAndMark reports true when messageID was already seen.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, errors.New("message id is required")
	}
	set, err := g.store.SetNX(ctx, g.store.IdempotencyKey(g.scope, messageID), "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Delete forgets messageID so a failed delivery can be retried.
func (g *IdempotencyGuard) Delete(ctx context.Context, messageID string) error {
	if messageID == "" {
		return errors.New("message id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(g.scope, messageID))
}
