package formnumber

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"leadcrm/internal/formnumber/metrics"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
)

// DefaultMaxAttempts bounds the number of candidates drawn per generation.
const DefaultMaxAttempts = 64

// ErrSpaceExhausted is returned when every attempt hit a taken number.
var ErrSpaceExhausted = errors.New("form number space exhausted")

// ExistsFunc reports whether formNumber is already taken in the namespace.
type ExistsFunc func(ctx context.Context, formNumber string) (bool, error)

// InsertFunc persists a record under formNumber. It returns an error wrapping
// sentinel.ErrAlreadyUsed when a concurrent writer took the number first.
type InsertFunc func(ctx context.Context, formNumber string) error

// Generator draws random PREFIX-NNNNN numbers and retries on collision.
type Generator struct {
	maxAttempts int
	metrics     *metrics.Metrics

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts overrides the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRand injects a deterministic random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = r
	}
}

// WithMetrics attaches generator metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// MaxAttempts returns the configured attempt budget.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

func (g *Generator) draw() int {
	const span = MaxSuffix - MinSuffix + 1
	if g.rnd == nil {
		return MinSuffix + rand.IntN(span)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return MinSuffix + g.rnd.IntN(span)
}

// Generate returns a number for prefix that exists reports as free.
func (g *Generator) Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	return g.Claim(ctx, prefix, exists, nil)
}

// Claim draws candidates until one is both reported free by exists and
// accepted by insert. A candidate rejected by insert with
// sentinel.ErrAlreadyUsed counts as a collision against the same budget.
// Either callback may be nil.
func (g *Generator) Claim(ctx context.Context, prefix string, exists ExistsFunc, insert InsertFunc) (string, error) {
	prefix = NormalizePrefix(prefix)
	if err := ValidatePrefix(prefix); err != nil {
		return "", err
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeTimeout, "form number generation cancelled")
		}

		candidate := Format(prefix, g.draw())
		g.metrics.IncAttempt(prefix)

		if exists != nil {
			taken, err := exists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("check form number %s: %w", candidate, err)
			}
			if taken {
				g.metrics.IncCollision(prefix)
				continue
			}
		}

		if insert != nil {
			if err := insert(ctx, candidate); err != nil {
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					g.metrics.IncCollision(prefix)
					continue
				}
				return "", err
			}
		}
		return candidate, nil
	}

	g.metrics.IncExhausted(prefix)
	return "", dErrors.Wrap(ErrSpaceExhausted, dErrors.CodeUnavailable,
		fmt.Sprintf("could not allocate a unique form number for %s after %d attempts", prefix, g.maxAttempts))
}
