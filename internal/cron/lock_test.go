package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryLockStore struct {
	values map[string]string
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryLockStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func TestRedisLockExclusiveAndOwnerScopedRelease(t *testing.T) {
	store := &memoryLockStore{values: map[string]string{}}
	ctx := context.Background()
	first, err := NewRedisLock(store, "mintalist:lock:cron-worker:test", time.Minute)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	second, _ := NewRedisLock(store, "mintalist:lock:cron-worker:test", time.Minute)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatalf("second acquire must fail while held")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("non-owner release: %v", err)
	}
	if _, held := store.values["mintalist:lock:cron-worker:test"]; !held {
		t.Fatalf("non-owner release must not drop the lock")
	}

	// Simulate lease expiry and takeover before the first owner releases.
	store.values["mintalist:lock:cron-worker:test"] = "someone-else"
	if err := first.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if store.values["mintalist:lock:cron-worker:test"] != "someone-else" {
		t.Fatalf("stale owner must not delete a newer lease")
	}

	delete(store.values, "mintalist:lock:cron-worker:test")
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatalf("expected acquire after expiry")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, held := store.values["mintalist:lock:cron-worker:test"]; held {
		t.Fatalf("owner release must delete the key")
	}
}
