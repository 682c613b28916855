package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	id "leadcrm/pkg/domain"
	request "leadcrm/pkg/platform/middleware/request"
	"leadcrm/pkg/requestcontext"
)

// HeaderAdminToken carries the operator token for automation and bootstrap.
const HeaderAdminToken = "X-Admin-Token"

// RoleAdmin is the role granted to requests authenticated by the admin token.
const RoleAdmin = "admin"

// RequireAdmin admits a request presenting the configured admin token, or
// otherwise defers to staffAuth, which must enforce the admin role itself.
// An empty expectedToken disables the token path.
func RequireAdmin(expectedToken string, staffAuth func(http.Handler) http.Handler, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		var viaStaff http.Handler
		if staffAuth != nil {
			viaStaff = staffAuth(next)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderAdminToken)
			if token != "" {
				if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
					logger.WarnContext(ctx, "admin token mismatch",
						"request_id", request.GetRequestID(ctx),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
					return
				}
				ctx = requestcontext.WithStaff(ctx, id.StaffID{}, RoleAdmin)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if viaStaff != nil {
				viaStaff.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
		})
	}
}
