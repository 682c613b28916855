package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadcrm/pkg/requestcontext"
)

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var role string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = requestcontext.StaffRole(r.Context())
	})
	staffAuth := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}

	t.Run("matching token grants admin role", func(t *testing.T) {
		role = ""
		r := httptest.NewRequest(http.MethodPost, "/admin/projects", nil)
		r.Header.Set(HeaderAdminToken, "s3cret")
		w := httptest.NewRecorder()
		RequireAdmin("s3cret", staffAuth, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, RoleAdmin, role)
	})

	t.Run("wrong token is rejected without falling back", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/projects", nil)
		r.Header.Set(HeaderAdminToken, "nope")
		w := httptest.NewRecorder()
		RequireAdmin("s3cret", staffAuth, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no token defers to staff auth", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/projects", nil)
		w := httptest.NewRecorder()
		RequireAdmin("s3cret", staffAuth, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("no token and no staff auth", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/admin/projects", nil)
		w := httptest.NewRecorder()
		RequireAdmin("s3cret", nil, logger)(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
