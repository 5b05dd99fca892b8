package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory wraps go-cache. The janitor is disabled; expired entries are
// rejected at read time and reaped by a scheduled DeleteExpired sweep.
type Memory struct {
	c *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, -1)}
}

func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *Memory) SetWithTTL(key, value string, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}

func (m *Memory) Delete(key string) {
	m.c.Delete(key)
}

func (m *Memory) DeleteExpired() {
	m.c.DeleteExpired()
}
