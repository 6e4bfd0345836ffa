package redis

import (
	"context"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
)

const mirrorPrefix = "mirror:"

// setIfNewer last-writer-wins by revision.
// KEYS[1] hash; ARGV: id, revision, payload. Returns 1 applied, 0 stale.
var setIfNewer = goredis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1] .. ':rev')
if cur and tonumber(cur) >= tonumber(ARGV[2]) then
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3], ARGV[1] .. ':rev', ARGV[2])
return 1
`)

// SetIfNewer stores payload under collection/id unless the mirror already
// holds the same or a later revision. applied is false for stale writes.
func (c *Client) SetIfNewer(ctx context.Context, collection, id string, revision int64, payload []byte) (applied bool, err error) {
	n, err := setIfNewer.Run(ctx, c.rdb, []string{mirrorPrefix + collection}, id, revision, payload).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MirrorGet reads the mirrored payload and its revision; ok is false when absent
func (c *Client) MirrorGet(ctx context.Context, collection, id string) (payload []byte, revision int64, ok bool, err error) {
	vals, err := c.rdb.HMGet(ctx, mirrorPrefix+collection, id, id+":rev").Result()
	if err != nil {
		return nil, 0, false, err
	}
	if vals[0] == nil {
		return nil, 0, false, nil
	}
	s, _ := vals[0].(string)
	if r, isStr := vals[1].(string); isStr {
		revision, _ = strconv.ParseInt(r, 10, 64)
	}
	return []byte(s), revision, true, nil
}
