package redis

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// slidingWindow trims the window, counts and conditionally admits atomically.
// KEYS[1] zset; ARGV: now(ms), window(ms), limit, member
var slidingWindow = goredis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// CheckRateLimit admits at most limit requests per window for key
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	res, err := slidingWindow.Run(ctx, c.rdb, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, member,
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
