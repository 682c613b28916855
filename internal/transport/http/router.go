// Package httptransport assembles the HTTP surface from the module handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leadcrm/internal/platform/metrics"
	staffModels "leadcrm/internal/staff/models"
	"leadcrm/pkg/platform/httputil"
	"leadcrm/pkg/platform/middleware/admin"
	authmw "leadcrm/pkg/platform/middleware/auth"
	"leadcrm/pkg/platform/middleware/metadata"
	"leadcrm/pkg/platform/middleware/request"
	"leadcrm/pkg/platform/middleware/requesttime"
)

// PublicRoutes are reachable without credentials.
type PublicRoutes interface {
	RegisterPublic(r chi.Router)
}

// StaffRoutes require a valid staff access token.
type StaffRoutes interface {
	RegisterStaff(r chi.Router)
}

// AdminRoutes require the admin role or the operator admin token.
type AdminRoutes interface {
	RegisterAdmin(r chi.Router)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps carries everything NewRouter mounts.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	AdminToken     string

	// PublicLimit, when set, guards the public routes.
	PublicLimit func(http.Handler) http.Handler

	Validator  authmw.JWTValidator
	Revocation authmw.TokenRevocationChecker

	Public []PublicRoutes
	Staff  []StaffRoutes
	Admin  []AdminRoutes

	Checks map[string]HealthCheck
}

// NewRouter wires the middleware chain and the three route groups.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Latency)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", readiness(d.Checks, logger))

	requireStaff := authmw.RequireAuth(d.Validator, d.Revocation, logger)
	requireAdminRole := func(next http.Handler) http.Handler {
		return requireStaff(authmw.RequireRole(logger, staffModels.RoleAdmin)(next))
	}

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(request.Timeout(d.RequestTimeout))
		}
		r.Use(request.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			if d.PublicLimit != nil {
				r.Use(d.PublicLimit)
			}
			for _, h := range d.Public {
				h.RegisterPublic(r)
			}
		})
		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			for _, h := range d.Staff {
				h.RegisterStaff(r)
			}
		})
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdmin(d.AdminToken, requireAdminRole, logger))
			for _, h := range d.Admin {
				h.RegisterAdmin(r)
			}
		})
	})
	return r
}

func readiness(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed",
					"dependency", name,
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				report[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{"checks": report})
	}
}
