package httptransport

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/httputil"
	authmw "leadcrm/pkg/platform/middleware/auth"
	"leadcrm/pkg/requestcontext"
	"leadcrm/pkg/testutil"
)

type stubValidator map[string]*authmw.JWTClaims

func (v stubValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if c, ok := v[token]; ok {
		return c, nil
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
}

type noRevocations struct{}

func (noRevocations) IsTokenRevoked(context.Context, string) (bool, error) { return false, nil }

type whoami struct{}

func (whoami) reply(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"role": requestcontext.StaffRole(r.Context())})
}

func (h whoami) RegisterPublic(r chi.Router) { r.Get("/ping", h.reply) }
func (h whoami) RegisterStaff(r chi.Router)  { r.Get("/me", h.reply) }
func (h whoami) RegisterAdmin(r chi.Router)  { r.Get("/admin/me", h.reply) }

func newTestRouter(checks map[string]HealthCheck) http.Handler {
	exp := time.Now().Add(time.Hour)
	return NewRouter(Deps{
		AdminToken: "ops",
		Validator: stubValidator{
			"staff-token": {StaffID: id.NewStaffID(), Role: "staff", JTI: "a", ExpiresAt: exp},
			"admin-token": {StaffID: id.NewStaffID(), Role: "admin", JTI: "b", ExpiresAt: exp},
		},
		Revocation: noRevocations{},
		Public:     []PublicRoutes{whoami{}},
		Staff:      []StaffRoutes{whoami{}},
		Admin:      []AdminRoutes{whoami{}},
		Checks:     checks,
	})
}

func TestRouteGroups(t *testing.T) {
	client := testutil.NewClient(t, newTestRouter(nil))

	tests := []struct {
		name   string
		client *testutil.Client
		path   string
		status int
	}{
		{"public route is open", client, "/ping", http.StatusOK},
		{"staff route needs a token", client, "/me", http.StatusUnauthorized},
		{"staff route accepts a staff token", client.AsStaff("staff-token"), "/me", http.StatusOK},
		{"staff route rejects an unknown token", client.AsStaff("forged"), "/me", http.StatusUnauthorized},
		{"admin route rejects the staff role", client.AsStaff("staff-token"), "/admin/me", http.StatusForbidden},
		{"admin route accepts the admin role", client.AsStaff("admin-token"), "/admin/me", http.StatusOK},
		{"admin route accepts the operator token", client.AsOperator("ops"), "/admin/me", http.StatusOK},
		{"admin route rejects a wrong operator token", client.AsOperator("nope"), "/admin/me", http.StatusUnauthorized},
		{"admin route needs credentials", client, "/admin/me", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := tt.client.Do(http.MethodGet, tt.path, nil)
			testutil.AssertStatus(t, rr, tt.status)
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	rr := testutil.NewClient(t, newTestRouter(nil)).Do(http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestReadiness(t *testing.T) {
	healthy := testutil.NewClient(t, newTestRouter(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
	}))
	testutil.AssertStatus(t, healthy.Do(http.MethodGet, "/health/ready", nil), http.StatusOK)

	degraded := testutil.NewClient(t, newTestRouter(map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}))
	rr := degraded.Do(http.MethodGet, "/health/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	report := testutil.Decode[struct {
		Checks map[string]string `json:"checks"`
	}](t, rr)
	assert.Equal(t, "unavailable", report.Checks["redis"])
	assert.Equal(t, "ok", report.Checks["postgres"])
}
