package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts hits per key in Redis. The caller puts the
// route, the identity and the window bucket into the key.
type FixedWindowLimiter struct {
	rdb *goredis.Client
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	if c == nil {
		return &FixedWindowLimiter{}
	}
	return &FixedWindowLimiter{rdb: c.rdb}
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Count      int
}

// incr bumps the counter and arms the expiry on the first hit.
// Returns {count, pttl_ms}.
var incrScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

// AllowFixedWindow allows everything when Redis is not configured or limit <= 0.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 || l.rdb == nil {
		return Decision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}, nil
	}
	if window <= 0 {
		window = time.Minute
	}

	res, err := incrScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit redis eval: %w", err)
	}
	arr, ok := res.([]any)
	if !ok || len(arr) != 2 {
		return Decision{}, fmt.Errorf("ratelimit redis eval: unexpected result %T", res)
	}
	count, ok1 := arr[0].(int64)
	ttlMs, ok2 := arr[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, fmt.Errorf("ratelimit redis eval: unexpected result types")
	}

	d := Decision{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: max(limit-int(count), 0),
		Count:     int(count),
	}
	if !d.Allowed {
		d.RetryAfter = window
		if ttlMs > 0 {
			d.RetryAfter = time.Duration(ttlMs) * time.Millisecond
		}
	}
	return d, nil
}
