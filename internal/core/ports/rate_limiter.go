package ports

import "context"

// LoginRateLimiter tracks failed password logins per client address in a
// sliding time window. IsLimited is a read-only classification; only
// RecordFailure mutates state. Successful logins do not clear an address's
// history — entries leave the window by expiry alone.
type LoginRateLimiter interface {
	IsLimited(ctx context.Context, address string) (bool, error)
	RecordFailure(ctx context.Context, address string) error
}
