package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/ratelimit/models"
)

const (
	testLimit  = 3
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	now   time.Time
	ctx   context.Context
	limit models.Limit
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	s.store = NewInMemoryBucketStore(WithClock(func() time.Time { return s.now }))
	s.limit = models.Limit{Requests: testLimit, Window: testWindow}
}

func (s *InMemoryBucketStoreSuite) TestAllowsUpToLimit() {
	for i := range testLimit {
		result, err := s.store.Allow(s.ctx, "ip:/leads", s.limit)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-i-1, result.Remaining)
		s.Equal(testLimit, result.Limit)
	}

	result, err := s.store.Allow(s.ctx, "ip:/leads", s.limit)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Zero(result.Remaining)
	s.Equal(s.now.Add(testWindow), result.ResetAt)
}

func (s *InMemoryBucketStoreSuite) TestKeysAreIndependent() {
	for range testLimit {
		_, err := s.store.Allow(s.ctx, "a", s.limit)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "b", s.limit)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestWindowSlides() {
	start := s.now
	for i := range testLimit {
		s.now = start.Add(time.Duration(i) * 10 * time.Second)
		_, err := s.store.Allow(s.ctx, "k", s.limit)
		s.Require().NoError(err)
	}

	s.now = start.Add(testWindow)
	result, err := s.store.Allow(s.ctx, "k", s.limit)
	s.Require().NoError(err)
	s.True(result.Allowed, "the oldest hit left the window")
	s.Zero(result.Remaining)

	result, err = s.store.Allow(s.ctx, "k", s.limit)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(start.Add(10*time.Second).Add(testWindow), result.ResetAt)
}

func (s *InMemoryBucketStoreSuite) TestRetryAfter() {
	for range testLimit + 1 {
		_, err := s.store.Allow(s.ctx, "k", s.limit)
		s.Require().NoError(err)
	}
	result, err := s.store.Allow(s.ctx, "k", s.limit)
	s.Require().NoError(err)
	s.Equal(testWindow, result.RetryAfter(s.now))
	s.Zero(result.RetryAfter(s.now.Add(2*testWindow)))
}
