// Package bucket counts requests per key within a time window.
package bucket

import (
	"context"
	"sync"
	"time"

	"leadcrm/internal/ratelimit/models"
)

// InMemoryBucketStore is a sliding-window limiter for a single instance.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	now     func() time.Time
}

type Option func(*InMemoryBucketStore)

func WithClock(now func() time.Time) Option {
	return func(s *InMemoryBucketStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryBucketStore(opts ...Option) *InMemoryBucketStore {
	s := &InMemoryBucketStore{buckets: make(map[string][]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow records a request for key when fewer than limit.Requests fall
// inside the trailing window.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	hits := trim(s.buckets[key], now.Add(-limit.Window))

	if len(hits) >= limit.Requests {
		s.buckets[key] = hits
		return &models.Result{
			Allowed: false,
			Limit:   limit.Requests,
			ResetAt: hits[0].Add(limit.Window),
		}, nil
	}

	hits = append(hits, now)
	s.buckets[key] = hits
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(hits),
		ResetAt:   hits[0].Add(limit.Window),
	}, nil
}

// trim drops timestamps at or before cutoff. Timestamps are appended in order.
func trim(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
