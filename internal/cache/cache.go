// Package cache provides the byte cache backing the demo endpoint: an
// in-process memory tier, with an optional Redis tier guarded by a circuit
// breaker when an address is configured.
package cache

import (
	"sync"
	"time"
)

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, val []byte, ttl time.Duration)
}

type memory struct {
	mu sync.Mutex
	m  map[string]entry
}
type entry struct {
	b   []byte
	exp time.Time
}

func New() Cache { return &memory{m: make(map[string]entry)} }

func (c *memory) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		return nil, false
	}
	return e.b, true
}
func (c *memory) Set(key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{b: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = time.Now().Add(ttl)
	}
	c.m[key] = e
}

// NewAuto returns a Redis-backed cache (memory fallback behind a circuit
// breaker) when addr is non-empty, otherwise a pure memory cache.
func NewAuto(addr string) Cache {
	if addr != "" {
		return newGuarded(addr)
	}
	return New()
}

// CircuitState reports the cache's breaker state for health reporting:
// closed, open, or half-open for the guarded Redis cache, "disabled" when no
// Redis tier is configured.
func CircuitState(c Cache) string {
	if g, ok := c.(*guarded); ok {
		return g.state()
	}
	return "disabled"
}
