package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const redisOpTimeout = 500 * time.Millisecond

// guarded is a Redis-backed cache with a local memory fallback. All Redis
// calls go through a circuit breaker: once Redis misbehaves the breaker
// opens and reads/writes are served by the memory tier until Redis recovers.
type guarded struct {
	rdb   *redis.Client
	cb    *gobreaker.CircuitBreaker
	local Cache
}

func newGuarded(addr string) *guarded {
	settings := gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Cache circuit state changed")
		},
	}

	return &guarded{
		rdb:   redis.NewClient(&redis.Options{Addr: addr}),
		cb:    gobreaker.NewCircuitBreaker(settings),
		local: New(),
	}
}

func (g *guarded) Get(key string) ([]byte, bool) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		b, err := g.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			// A miss is a healthy response, not a breaker failure.
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		// Redis unavailable or breaker open: fall back to the memory tier.
		return g.local.Get(key)
	}
	if res == nil {
		return nil, false
	}
	return res.([]byte), true
}

func (g *guarded) Set(key string, val []byte, ttl time.Duration) {
	// Keep the fallback tier warm regardless of Redis health.
	g.local.Set(key, val, ttl)

	_, err := g.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		return nil, g.rdb.Set(ctx, key, val, ttl).Err()
	})
	if err != nil && err != gobreaker.ErrOpenState {
		log.Debug().Err(err).Str("key", key).Msg("Redis cache write failed")
	}
}

func (g *guarded) state() string {
	return strings.ReplaceAll(g.cb.State().String(), " ", "-")
}
