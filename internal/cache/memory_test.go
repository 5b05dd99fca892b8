package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDelete(t *testing.T) {
	m := NewMemory()

	m.SetWithTTL("k", "v", time.Minute)
	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	m.Delete("k")
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()

	m.SetWithTTL("k", "first", time.Minute)
	m.SetWithTTL("k", "second", time.Minute)

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestMemoryExpiryRejectedAtRead(t *testing.T) {
	m := NewMemory()

	m.SetWithTTL("k", "v", time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	// No janitor is running; Get itself must reject the expired entry.
	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestMemoryDeleteExpired(t *testing.T) {
	m := NewMemory()

	m.SetWithTTL("old", "v", time.Millisecond)
	m.SetWithTTL("fresh", "v", time.Minute)
	time.Sleep(10 * time.Millisecond)

	m.DeleteExpired()

	_, ok := m.Get("old")
	assert.False(t, ok)
	_, ok = m.Get("fresh")
	assert.True(t, ok)
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()

	_, ok := m.Get("missing")
	assert.False(t, ok)
}
