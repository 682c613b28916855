// Package tx carries a SQL transaction through context so stores can join
// a unit of work started by a service.
package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "leadcrm/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

// DefaultTimeout bounds every unit of work that does not carry a deadline.
const DefaultTimeout = 5 * time.Second

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Exec returns the transaction in ctx, or db when none is active.
func Exec(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Runner executes fn as one atomic unit of work.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Option configures a runner.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithDefaultTimeout replaces DefaultTimeout for units of work whose context
// has no deadline. A caller deadline always wins.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return nil
}

// SQLRunner runs units of work in a database transaction.
type SQLRunner struct {
	db   *sql.DB
	opts options
}

func NewSQLRunner(db *sql.DB, opts ...Option) *SQLRunner {
	return &SQLRunner{db: db, opts: newOptions(opts)}
}

// RunInTx begins a transaction, exposes it through ctx, and commits when fn
// returns nil. Nested calls reuse the outer transaction.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	ctx, cancel := withDefaultTimeout(ctx, r.opts.timeout)
	defer cancel()

	if err := checkCancelled(ctx); err != nil {
		return err
	}
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err = checkCancelled(ctx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// LockRunner serializes units of work against in-memory stores. It gives
// isolation between callers but cannot roll back partial writes.
type LockRunner struct {
	mu   sync.Mutex
	opts options
}

func NewLockRunner(opts ...Option) *LockRunner {
	return &LockRunner{opts: newOptions(opts)}
}

func (r *LockRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := withDefaultTimeout(ctx, r.opts.timeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkCancelled(ctx); err != nil {
		return err
	}
	return fn(ctx)
}
