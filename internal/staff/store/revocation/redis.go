package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const revokedTokenKeyPrefix = "leadcrm:trl:jti:"

// RedisTRL shares revocations between instances. Keys expire with the token.
type RedisTRL struct {
	client    *redis.Client
	checkTime prometheus.Histogram
}

type RedisOption func(*RedisTRL)

// WithRegisterer registers the revocation check latency histogram.
func WithRegisterer(reg prometheus.Registerer) RedisOption {
	return func(t *RedisTRL) {
		t.checkTime = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "leadcrm_token_revocation_check_seconds",
			Help:    "Latency of token revocation checks",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		})
	}
}

func NewRedisTRL(client *redis.Client, opts ...RedisOption) *RedisTRL {
	t := &RedisTRL{client: client}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RevokeToken sets a marker key that expires after ttl.
func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	if jti == "" {
		return nil
	}
	return t.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

func (t *RedisTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if t.checkTime != nil {
		start := time.Now()
		defer func() { t.checkTime.Observe(time.Since(start).Seconds()) }()
	}
	if jti == "" {
		return false, nil
	}
	err := t.client.Get(ctx, revokedTokenKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
