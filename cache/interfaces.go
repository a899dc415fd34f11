// Package cache stores raw provider responses keyed by request signature.
// Freshness is decided by the caller against its own TTL, so a store keeps
// stale entries readable until they are overwritten or evicted.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry represents a cached response body with metadata
type Entry struct {
	Key      string          `json:"key"`
	Body     json.RawMessage `json:"body"`
	StoredAt time.Time       `json:"stored_at"`
}

// Fresh reports whether the entry is still within ttl at now.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Reader defines the interface for reading cache entries
type Reader interface {
	// Read returns the entry stored under key, fresh or stale.
	// ok is false when nothing is stored for key.
	Read(ctx context.Context, key string) (entry *Entry, ok bool, err error)
}

// Writer defines the interface for writing cache entries
type Writer interface {
	// Write stores entry under entry.Key, replacing any previous value.
	Write(ctx context.Context, entry *Entry) error
}

// Store combines both cache operations
type Store interface {
	Reader
	Writer
}
