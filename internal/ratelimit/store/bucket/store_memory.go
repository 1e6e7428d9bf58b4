package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"storefront/internal/ratelimit/models"
)

// InMemoryBucketStore keeps one token bucket per key. Idle keys are evicted
// by the janitor.
type InMemoryBucketStore struct {
	mu           sync.Mutex
	entries      map[string]*entry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type Option func(*InMemoryBucketStore)

func WithIdleTTL(d time.Duration) Option {
	return func(s *InMemoryBucketStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) Option {
	return func(s *InMemoryBucketStore) { s.cleanupEvery = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryBucketStore) { s.now = now }
}

// NewInMemoryBucketStore refills at rps tokens per second up to burst.
func NewInMemoryBucketStore(rps float64, burst int, opts ...Option) *InMemoryBucketStore {
	s := &InMemoryBucketStore{
		entries:      make(map[string]*entry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow consumes one token for key.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string) (*models.RateLimitResult, error) {
	now := s.now()

	s.mu.Lock()
	ent, ok := s.entries[key]
	if !ok {
		ent = &entry{lim: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = ent
	}
	ent.lastSeen = now
	lim := ent.lim
	s.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	result := &models.RateLimitResult{
		Allowed:   allowed,
		Limit:     s.burst,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetAt:   now.Add(s.untilFull(tokens)),
	}
	if !allowed {
		result.RetryAfter = int(math.Ceil(s.untilTokens(tokens, 1).Seconds()))
		if result.RetryAfter < 1 {
			result.RetryAfter = 1
		}
	}
	return result, nil
}

func (s *InMemoryBucketStore) untilFull(tokens float64) time.Duration {
	return s.untilTokens(tokens, float64(s.burst))
}

func (s *InMemoryBucketStore) untilTokens(tokens, want float64) time.Duration {
	missing := want - tokens
	if missing <= 0 || s.rps <= 0 {
		return 0
	}
	return time.Duration(missing / float64(s.rps) * float64(time.Second))
}

// Len reports how many keys are tracked.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup evicts keys idle for longer than the idle TTL.
func (s *InMemoryBucketStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until ctx is done.
func (s *InMemoryBucketStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}
	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
