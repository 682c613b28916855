// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing net/http:
//
//	staffID := requestcontext.StaffID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject them directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "leadcrm/pkg/domain"
)

type (
	staffIDKey     struct{}
	staffRoleKey   struct{}
	tokenIDKey     struct{}
	tokenExpiryKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue.
var (
	ContextKeyStaffID     = staffIDKey{}
	ContextKeyStaffRole   = staffRoleKey{}
	ContextKeyTokenID     = tokenIDKey{}
	ContextKeyTokenExpiry = tokenExpiryKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Staff principal
// -----------------------------------------------------------------------------

// StaffID returns the authenticated staff member, or the nil ID.
func StaffID(ctx context.Context) id.StaffID {
	if v, ok := ctx.Value(ContextKeyStaffID).(id.StaffID); ok {
		return v
	}
	return id.StaffID{}
}

// StaffRole returns the authenticated staff role, or "".
func StaffRole(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyStaffRole).(string); ok {
		return v
	}
	return ""
}

// WithStaff injects the authenticated principal into the context.
func WithStaff(ctx context.Context, staffID id.StaffID, role string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyStaffID, staffID)
	return context.WithValue(ctx, ContextKeyStaffRole, role)
}

// TokenID returns the jti of the bearer token used on this request.
func TokenID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyTokenID).(string); ok {
		return v
	}
	return ""
}

// TokenExpiry returns the expiry of the bearer token used on this request.
func TokenExpiry(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ContextKeyTokenExpiry).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// WithToken injects the bearer token identity into the context.
func WithToken(ctx context.Context, jti string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, ContextKeyTokenID, jti)
	return context.WithValue(ctx, ContextKeyTokenExpiry, expiresAt)
}

// -----------------------------------------------------------------------------
// Client metadata
// -----------------------------------------------------------------------------

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for CLI commands, workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
