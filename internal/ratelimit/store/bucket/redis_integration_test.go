//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/ratelimit/models"
	"leadcrm/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketStoreSuite) TestRejectsAfterLimit() {
	limit := models.Limit{Requests: 2, Window: time.Minute}

	for i := range 2 {
		result, err := s.store.Allow(s.ctx, "203.0.113.9:/auth/login", limit)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(1-i, result.Remaining)
	}

	result, err := s.store.Allow(s.ctx, "203.0.113.9:/auth/login", limit)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.True(result.ResetAt.After(time.Now()))

	count, err := s.store.Count(s.ctx, "203.0.113.9:/auth/login")
	s.Require().NoError(err)
	s.Equal(3, count)

	keys, err := s.redis.KeyCount(s.ctx, bucketKeyPrefix+"*")
	s.Require().NoError(err)
	s.Equal(1, keys)
}

func (s *RedisBucketStoreSuite) TestWindowExpiresKey() {
	limit := models.Limit{Requests: 5, Window: time.Minute}
	_, err := s.store.Allow(s.ctx, "k", limit)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(s.ctx, bucketKeyPrefix+"k").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisBucketStoreSuite) TestUnknownKeyCountsZero() {
	count, err := s.store.Count(s.ctx, "missing")
	s.Require().NoError(err)
	s.Zero(count)
}
