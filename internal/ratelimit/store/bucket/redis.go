package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"leadcrm/internal/ratelimit/models"
)

const bucketKeyPrefix = "leadcrm:ratelimit:"

// RedisBucketStore is a fixed-window counter shared by every instance. The
// window starts with the first request for the key.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	redisKey := bucketKeyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.ExpireNX(ctx, redisKey, limit.Window)
		ttl = p.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	remainingTTL := ttl.Val()
	if remainingTTL <= 0 {
		remainingTTL = limit.Window
	}
	result := &models.Result{
		Allowed: count <= limit.Requests,
		Limit:   limit.Requests,
		ResetAt: s.now().Add(remainingTTL),
	}
	if result.Allowed {
		result.Remaining = limit.Requests - count
	}
	return result, nil
}

// Count returns the requests recorded in the current window for key.
func (s *RedisBucketStore) Count(ctx context.Context, key string) (int, error) {
	raw, err := s.client.Get(ctx, bucketKeyPrefix+key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
