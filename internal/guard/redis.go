package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "logoforge:guard:"

// claimScript sets KEYS[1] to ARGV[1] unless it already holds that value.
// ARGV[2] is the expiry in milliseconds; zero keeps the key forever.
var claimScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return 0
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
  redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// RedisStore shares remembered titles between instances.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Claim(ctx context.Context, clientIP, title string) (bool, error) {
	ttl := s.ttl.Milliseconds()
	if ttl < 0 {
		ttl = 0
	}
	claimed, err := claimScript.Run(ctx, s.client, []string{redisKeyPrefix + clientIP}, title, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("redis claim: %w", err)
	}
	return claimed == 1, nil
}

var _ Store = (*RedisStore)(nil)
