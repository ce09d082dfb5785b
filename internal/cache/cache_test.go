package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)

// fixedClock returns a clock stuck at testEpoch plus the given offset.
func fixedClock(offset time.Duration) func() time.Time {
	return func() time.Time { return testEpoch.Add(offset) }
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(ttls Config) (*Cache, *clock) {
	clk := &clock{now: testEpoch}
	return NewWithClock(ttls, clk.Now), clk
}

func TestGetSetRoundTrip(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute})

	require.NoError(t, c.Set("schedule", "42:1", []string{"a", "b"}))

	var got []string
	require.True(t, c.Get("schedule", "42:1", &got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestGetMissesUnknownKey(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute})

	var got []string
	assert.False(t, c.Get("schedule", "missing", &got))
}

func TestUnconfiguredCategoryDisablesCaching(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute})

	require.NoError(t, c.Set("faculties", "all", []string{"x"}))

	var got []string
	assert.False(t, c.Get("faculties", "all", &got))
	assert.Empty(t, c.Export())
}

func TestExpiredEntryIsEvicted(t *testing.T) {
	c, clk := newTestCache(Config{"schedule": time.Second})

	require.NoError(t, c.Set("schedule", "42:1", "value"))

	// Exactly at the TTL the entry is still alive.
	clk.Advance(time.Second)
	var got string
	assert.True(t, c.Get("schedule", "42:1", &got))

	clk.Advance(500 * time.Millisecond)
	assert.False(t, c.Get("schedule", "42:1", &got))

	// Eviction happens on the failed read, not just a miss.
	assert.Empty(t, c.Export())
}

func TestForeverNeverExpires(t *testing.T) {
	c, clk := newTestCache(Config{"faculties": Forever})

	require.NoError(t, c.Set("faculties", "all", "value"))

	clk.Advance(10 * 365 * 24 * time.Hour)

	var got string
	assert.True(t, c.Get("faculties", "all", &got))
	assert.Equal(t, "value", got)
}

func TestSetOverwrites(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute})

	require.NoError(t, c.Set("schedule", "42:1", "old"))
	require.NoError(t, c.Set("schedule", "42:1", "new"))

	var got string
	require.True(t, c.Get("schedule", "42:1", &got))
	assert.Equal(t, "new", got)
}

func TestClearCategory(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute, "faculties": time.Minute})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	require.NoError(t, c.Set("schedule", "42:2", "b"))
	require.NoError(t, c.Set("faculties", "all", "c"))

	c.Clear("schedule")

	var got string
	assert.False(t, c.Get("schedule", "42:1", &got))
	assert.False(t, c.Get("schedule", "42:2", &got))
	assert.True(t, c.Get("faculties", "all", &got))
}

func TestClearAll(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Minute, "faculties": time.Minute})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	require.NoError(t, c.Set("faculties", "all", "b"))

	c.Clear("")

	assert.Empty(t, c.Export())
}

func TestExportImportRoundTrip(t *testing.T) {
	c, clk := newTestCache(Config{"schedule": time.Hour, "faculties": Forever})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	clk.Advance(time.Minute)
	require.NoError(t, c.Set("faculties", "all", "b"))

	snapshot := c.Export()
	require.Len(t, snapshot, 2)
	assert.Equal(t, testEpoch.UnixMilli(), snapshot["schedule:42:1"].Timestamp)
	assert.Equal(t, testEpoch.Add(time.Minute).UnixMilli(), snapshot["faculties:all"].Timestamp)

	// A fresh cache fed the snapshot serves the same values with the same
	// timestamps.
	fresh := NewWithClock(Config{"schedule": time.Hour, "faculties": Forever}, clk.Now)
	fresh.Import(snapshot)

	var got string
	require.True(t, fresh.Get("schedule", "42:1", &got))
	assert.Equal(t, "a", got)

	assert.Equal(t, snapshot, fresh.Export())
}

func TestImportKeepsOriginalTimestamps(t *testing.T) {
	c, clk := newTestCache(Config{"schedule": time.Minute})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	snapshot := c.Export()

	// Restore into a cache whose clock is past the entry's TTL: the
	// imported entry must expire based on its recorded timestamp.
	clk.Advance(2 * time.Minute)
	fresh := NewWithClock(Config{"schedule": time.Minute}, clk.Now)
	fresh.Import(snapshot)

	var got string
	assert.False(t, fresh.Get("schedule", "42:1", &got))
}

func TestImportIsIdempotent(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Hour})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	snapshot := c.Export()

	fresh, _ := newTestCache(Config{"schedule": time.Hour})
	fresh.Import(snapshot)
	fresh.Import(snapshot)

	assert.Equal(t, snapshot, fresh.Export())
}

func TestExportIsACopy(t *testing.T) {
	c, _ := newTestCache(Config{"schedule": time.Hour})

	require.NoError(t, c.Set("schedule", "42:1", "a"))
	snapshot := c.Export()
	delete(snapshot, "schedule:42:1")

	var got string
	assert.True(t, c.Get("schedule", "42:1", &got))
}

func TestGetWithFixedClock(t *testing.T) {
	c := NewWithClock(Config{"schedule": time.Minute}, fixedClock(0))

	require.NoError(t, c.Set("schedule", "42:1", 7))

	var got int
	require.True(t, c.Get("schedule", "42:1", &got))
	assert.Equal(t, 7, got)
}
