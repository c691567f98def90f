package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const touchWindow = time.Minute

// TouchLimiter throttles lastUsedAt persistence through Redis.
// Key format: key_touch:<key_id>
type TouchLimiter struct {
	client *redis.Client
}

// NewTouchLimiter creates a TouchLimiter wrapping the given Redis client.
func NewTouchLimiter(client *redis.Client) *TouchLimiter {
	return &TouchLimiter{client: client}
}

// Allow reports whether a touch for keyID should be written now. At most one
// touch per key passes per touchWindow. Redis failures fail open: last-used
// tracking is best-effort and must not gate authentication.
func (l *TouchLimiter) Allow(ctx context.Context, keyID string) bool {
	ok, err := l.client.SetNX(ctx, "key_touch:"+keyID, "1", touchWindow).Result()
	if err != nil {
		return true
	}
	return ok
}
