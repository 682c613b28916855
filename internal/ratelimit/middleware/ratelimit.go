// Package middleware throttles unauthenticated write requests per client.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"leadcrm/internal/ratelimit/models"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/requestcontext"
)

// BucketStore records one request against key and reports whether it fits
// the limit.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

// Limiter rejects clients that exceed Limit on non-GET requests.
type Limiter struct {
	store    BucketStore
	limit    models.Limit
	logger   *slog.Logger
	rejected *prometheus.CounterVec
	now      func() time.Time
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRegisterer exports the rejection counter.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(l *Limiter) {
		l.rejected = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "leadcrm_rate_limited_requests_total",
			Help: "Public write requests rejected by the rate limiter, by path",
		}, []string{"path"})
	}
}

func New(store BucketStore, limit models.Limit, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware counts each non-GET request under client IP and path. Store
// failures let the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := requestcontext.ClientIP(ctx) + ":" + r.URL.Path

		result, err := l.store.Allow(ctx, key, l.limit)
		if err != nil {
			l.logger.WarnContext(ctx, "rate limit check failed, allowing request",
				"error", err,
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retry := int(result.RetryAfter(l.now()).Round(time.Second) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			if l.rejected != nil {
				l.rejected.WithLabelValues(r.URL.Path).Inc()
			}
			l.logger.InfoContext(ctx, "request rate limited",
				"client_ip", requestcontext.ClientIP(ctx),
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:       "rate_limited",
				Description: "too many requests, try again later",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
