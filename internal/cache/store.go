package cache

import "time"

// Store is a TTL key-value store for short-lived values like login codes.
type Store interface {
	Get(key string) (string, bool)
	SetWithTTL(key, value string, ttl time.Duration)
	Delete(key string)
	DeleteExpired()
}
