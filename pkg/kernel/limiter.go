// Package kernel holds cross-cutting runtime concerns that sit alongside
// the governance pipeline rather than inside it: here, a per-tenant
// transaction-volume backpressure check, distinct from the per-actor
// sliding-window limiter in pkg/security. Where that limiter protects an
// individual actor from bursting, this one protects a tenant's aggregate
// write volume, and is meant to be backed by a shared store in multi-
// instance deployments.
package kernel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// BackpressurePolicy defines a tenant's transaction-volume limits.
type BackpressurePolicy struct {
	RPM   int
	Burst int
}

// LimiterStore abstracts the storage for tenant backpressure buckets.
type LimiterStore interface {
	// Allow reports whether tenantID may spend cost tokens against policy.
	Allow(ctx context.Context, tenantID string, policy BackpressurePolicy, cost int) (bool, error)
}

// EvaluateBackpressure checks whether tenantID may proceed under policy. A
// nil store fails closed: with no limiter configured, writes are refused
// rather than silently unthrottled.
func EvaluateBackpressure(ctx context.Context, store LimiterStore, tenantID string, policy BackpressurePolicy) error {
	if store == nil {
		return fmt.Errorf("kernel: no limiter store configured")
	}
	allowed, err := store.Allow(ctx, tenantID, policy, 1)
	if err != nil {
		return fmt.Errorf("kernel: backpressure check failed: %w", err)
	}
	if !allowed {
		return fmt.Errorf("kernel: transaction volume limit exceeded for tenant %s", tenantID)
	}
	return nil
}

// InMemoryLimiterStore backs a single-instance deployment with an
// x/time/rate.Limiter per tenant.
type InMemoryLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewInMemoryLimiterStore() *InMemoryLimiterStore {
	return &InMemoryLimiterStore{limiters: make(map[string]*rate.Limiter)}
}

func (s *InMemoryLimiterStore) Allow(_ context.Context, tenantID string, policy BackpressurePolicy, cost int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[tenantID]
	if !ok {
		rps := float64(policy.RPM) / 60.0
		if rps <= 0 {
			rps = 1
		}
		burst := policy.Burst
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(rps), burst)
		s.limiters[tenantID] = l
	}
	return l.AllowN(time.Now(), cost), nil
}

// RedisLimiterStore backs a multi-instance deployment with a shared
// fixed-window counter in Redis, keyed per tenant per policy window.
type RedisLimiterStore struct {
	client *redis.Client
}

func NewRedisLimiterStore(client *redis.Client) *RedisLimiterStore {
	return &RedisLimiterStore{client: client}
}

func (s *RedisLimiterStore) Allow(ctx context.Context, tenantID string, policy BackpressurePolicy, cost int) (bool, error) {
	limit := policy.RPM + policy.Burst
	if limit <= 0 {
		limit = 1
	}
	key := fmt.Sprintf("kernel:backpressure:%s", tenantID)

	count, err := s.client.IncrBy(ctx, key, int64(cost)).Result()
	if err != nil {
		return false, fmt.Errorf("kernel: redis incr: %w", err)
	}
	if count == int64(cost) {
		if err := s.client.Expire(ctx, key, time.Minute).Err(); err != nil {
			return false, fmt.Errorf("kernel: redis expire: %w", err)
		}
	}
	return count <= int64(limit), nil
}
