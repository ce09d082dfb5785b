package lock

import (
	"context"
	"sync"
	"time"
)

// Locker serializes remote fetches for a key so that concurrent cache
// misses do not stampede the upstream. Lock returns false when another
// holder owns the key.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Memory is a process-local Locker for tests and single-instance runs.
type Memory struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]time.Time), clock: time.Now}
}

func (m *Memory) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if deadline, ok := m.held[key]; ok && now.Before(deadline) {
		return false, nil
	}
	m.held[key] = now.Add(ttl)
	return true, nil
}

func (m *Memory) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}
