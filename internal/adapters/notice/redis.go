package notice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"activitysignup/internal/domain"
)

const keyPrefix = "activitysignup:notice:"

// dismissScript deletes KEYS[1] only while it still holds the notice ARGV[1].
var dismissScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return 0
end
if cjson.decode(v).id == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore returns a NoticeStore shared by every portal instance using
// the same Redis. Expiry is the key TTL.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) domain.NoticeStore {
	return &redisStore{client: client, ttl: ttl, now: time.Now}
}

func key(viewer string) string {
	return keyPrefix + viewer
}

func (s *redisStore) Post(ctx context.Context, viewer string, n domain.Notice) (domain.Notice, error) {
	n = stamp(n, s.now(), s.ttl)
	payload, err := json.Marshal(n)
	if err != nil {
		return domain.Notice{}, fmt.Errorf("encode notice: %w", err)
	}
	if err := s.client.Set(ctx, key(viewer), payload, s.ttl).Err(); err != nil {
		return domain.Notice{}, fmt.Errorf("store notice: %w", err)
	}
	return n, nil
}

func (s *redisStore) Current(ctx context.Context, viewer string) (domain.Notice, bool, error) {
	raw, err := s.client.Get(ctx, key(viewer)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Notice{}, false, nil
	}
	if err != nil {
		return domain.Notice{}, false, fmt.Errorf("load notice: %w", err)
	}
	var n domain.Notice
	if err := json.Unmarshal(raw, &n); err != nil {
		return domain.Notice{}, false, fmt.Errorf("decode notice: %w", err)
	}
	return n, true, nil
}

func (s *redisStore) Dismiss(ctx context.Context, viewer, id string) (bool, error) {
	deleted, err := dismissScript.Run(ctx, s.client, []string{key(viewer)}, id).Int()
	if err != nil {
		return false, fmt.Errorf("dismiss notice: %w", err)
	}
	return deleted == 1, nil
}
