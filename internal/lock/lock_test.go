package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockExcludes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ok, err := m.Lock(ctx, "schedule:42:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Lock(ctx, "schedule:42:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// A different key is independent.
	ok, err = m.Lock(ctx, "schedule:42:2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryUnlockReleases(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ok, _ := m.Lock(ctx, "k", time.Minute)
	require.True(t, ok)

	require.NoError(t, m.Unlock(ctx, "k"))

	ok, _ = m.Lock(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLockExpires(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	m.clock = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := m.Lock(ctx, "k", time.Second)
	require.True(t, ok)

	ok, _ = m.Lock(ctx, "k", time.Second)
	require.False(t, ok)

	// Past the TTL the key can be taken over.
	now = now.Add(2 * time.Second)
	ok, _ = m.Lock(ctx, "k", time.Second)
	assert.True(t, ok)
}
