package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusverein/member-portal/internal/core/ports"
)

// RateLimiter implements the login failure sliding window on Redis sorted
// sets, one set per client address. Writes touch only the failing
// address's key, so concurrent failures from unrelated addresses never
// serialize against each other.
//
// Key format: ratelimit:login:<address>; member and score are the failure
// timestamp in nanoseconds.
type RateLimiter struct {
	client    *redis.Client
	window    time.Duration
	threshold int
	clock     ports.Clock
}

func NewRateLimiter(client *redis.Client, window time.Duration, threshold int, clock ports.Clock) *RateLimiter {
	if window <= 0 {
		window = 900 * time.Second
	}
	if threshold <= 0 {
		threshold = 5
	}
	return &RateLimiter{client: client, window: window, threshold: threshold, clock: clock}
}

// IsLimited counts in-window failures for the address. Read-only: expired
// members are excluded by score range, not removed.
func (l *RateLimiter) IsLimited(ctx context.Context, address string) (bool, error) {
	cutoff := l.clock.Now().Add(-l.window).UnixNano()

	n, err := l.client.ZCount(ctx, l.key(address), strconv.FormatInt(cutoff, 10), "+inf").Result()
	if err != nil {
		return false, fmt.Errorf("rate limit count: %w", err)
	}
	return n >= int64(l.threshold), nil
}

// RecordFailure appends the current failure and prunes entries older than
// the window. The key expires with the window so an idle address leaves no
// state behind.
func (l *RateLimiter) RecordFailure(ctx context.Context, address string) error {
	now := l.clock.Now()
	cutoff := now.Add(-l.window).UnixNano()
	key := l.key(address)

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit record: %w", err)
	}
	return nil
}

func (l *RateLimiter) key(address string) string {
	return fmt.Sprintf("ratelimit:login:%s", address)
}
