package security

import (
	"sync"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
)

// window is the fixed sliding-window size for the rate limiter.
const window = 60 * time.Second

// Tier is the per-actor-kind rate limit: base-per-minute plus burst
// allowance, giving an effective bucket capacity of Base+Burst.
type Tier struct {
	Base  int
	Burst int
}

func (t Tier) capacity() int { return t.Base + t.Burst }

// DefaultTiers mirrors a representative production configuration; callers
// override via RateLimiter.SetTier.
func DefaultTiers() map[bizcontext.ActorKind]Tier {
	return map[bizcontext.ActorKind]Tier{
		bizcontext.ActorHuman:  {Base: 60, Burst: 10},
		bizcontext.ActorSystem: {Base: 600, Burst: 100},
		bizcontext.ActorDevice: {Base: 120, Burst: 20},
		bizcontext.ActorAI:     {Base: 30, Burst: 5},
	}
}

// RateLimitResult reports the outcome of a Check call.
type RateLimitResult struct {
	Allowed      bool
	RetryAfter   time.Duration
}

// RateLimiter enforces a sliding window per (actor_id, tenant_id) bucket.
// Time is always injected — the limiter never reads the wall clock itself
// — so the 60s window behaves deterministically under test (scenario S5).
type RateLimiter struct {
	mu      sync.Mutex
	clock   clock.Clock
	tiers   map[bizcontext.ActorKind]Tier
	buckets map[string][]time.Time
}

// NewRateLimiter builds a limiter using c for all time reads and tiers for
// per-actor-kind capacity. A nil tiers map uses DefaultTiers.
func NewRateLimiter(c clock.Clock, tiers map[bizcontext.ActorKind]Tier) *RateLimiter {
	if c == nil {
		c = clock.Real()
	}
	if tiers == nil {
		tiers = DefaultTiers()
	}
	return &RateLimiter{
		clock:   c,
		tiers:   tiers,
		buckets: make(map[string][]time.Time),
	}
}

// SetTier overrides the tier for a given actor kind.
func (l *RateLimiter) SetTier(kind bizcontext.ActorKind, tier Tier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tiers[kind] = tier
}

func bucketKey(actorID, tenantID string) string { return tenantID + "/" + actorID }

// Check evicts timestamps older than the window, and if room remains,
// records the call and allows it; otherwise denies with the advisory
// retry-after duration until the oldest stamp ages out.
func (l *RateLimiter) Check(actorID, tenantID string, kind bizcontext.ActorKind) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	tier, ok := l.tiers[kind]
	if !ok {
		tier = Tier{Base: 60, Burst: 0}
	}
	capacity := tier.capacity()

	key := bucketKey(actorID, tenantID)
	stamps := l.buckets[key]

	cutoff := now.Add(-window)
	kept := stamps[:0]
	for _, s := range stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	stamps = kept

	if len(stamps) >= capacity {
		oldest := stamps[0]
		retryAfter := oldest.Add(window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		l.buckets[key] = stamps
		return RateLimitResult{Allowed: false, RetryAfter: retryAfter}
	}

	stamps = append(stamps, now)
	l.buckets[key] = stamps
	return RateLimitResult{Allowed: true}
}
