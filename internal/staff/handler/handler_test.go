package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"leadcrm/internal/staff/handler/mocks"
	"leadcrm/internal/staff/models"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type StaffHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestStaffHandlerSuite(t *testing.T) {
	suite.Run(t, new(StaffHandlerSuite))
}

func (s *StaffHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	h.RegisterStaff(s.router)
	h.RegisterAdmin(s.router)
}

func (s *StaffHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *StaffHandlerSuite) TestLogin() {
	expires := time.Date(2026, 10, 17, 11, 0, 0, 0, time.UTC)
	s.service.EXPECT().
		Login(gomock.Any(), &models.LoginRequest{Username: "desk.one", Password: "correct-horse"}).
		Return(&models.LoginResult{AccessToken: "signed", TokenType: "Bearer", ExpiresIn: 900, ExpiresAt: expires}, nil)

	rec := s.do(http.MethodPost, "/auth/login", `{"username":" Desk.One ","password":"correct-horse"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("no-store", rec.Header().Get("Cache-Control"))
	var got models.LoginResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal("signed", got.AccessToken)
	s.Equal(900, got.ExpiresIn)
}

func (s *StaffHandlerSuite) TestLoginRejected() {
	s.service.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password"))

	rec := s.do(http.MethodPost, "/auth/login", `{"username":"desk.one","password":"nope"}`)

	s.Equal(http.StatusUnauthorized, rec.Code)
	var resp httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("invalid username or password", resp.Description)
}

func (s *StaffHandlerSuite) TestLoginMissingFieldsNeverReachesService() {
	rec := s.do(http.MethodPost, "/auth/login", `{"username":"desk.one"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *StaffHandlerSuite) TestLogout() {
	s.service.EXPECT().Logout(gomock.Any()).Return(nil)
	rec := s.do(http.MethodPost, "/auth/logout", ``)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *StaffHandlerSuite) TestMe() {
	staffID := id.NewStaffID()
	s.service.EXPECT().Me(gomock.Any()).Return(&models.Staff{ID: staffID, Username: "desk.one", PasswordHash: "secret-hash"}, nil)

	rec := s.do(http.MethodGet, "/auth/me", ``)

	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "secret-hash")
	s.Contains(rec.Body.String(), staffID.String())
}

func (s *StaffHandlerSuite) TestCreateStaff() {
	s.service.EXPECT().
		CreateStaff(gomock.Any(), &models.CreateStaffRequest{Username: "desk.two", Password: "long-enough", Role: models.RoleStaff}).
		Return(&models.Staff{ID: id.NewStaffID(), Username: "desk.two", Role: models.RoleStaff, Active: true}, nil)

	rec := s.do(http.MethodPost, "/admin/staff", `{"username":"Desk.Two","password":"long-enough"}`)
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *StaffHandlerSuite) TestCreateStaffConflict() {
	s.service.EXPECT().CreateStaff(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "username is already taken"))

	rec := s.do(http.MethodPost, "/admin/staff", `{"username":"desk.two","password":"long-enough"}`)
	s.Equal(http.StatusConflict, rec.Code)
}
