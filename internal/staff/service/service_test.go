package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leadcrm/internal/staff/models"
	"leadcrm/internal/staff/store"
	"leadcrm/internal/staff/store/revocation"
	"leadcrm/internal/staff/token"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/requestcontext"
)

type StaffServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *store.InMemoryStore
	trl     *revocation.InMemoryTRL
	tokens  *token.JWTService
	service *Service
}

func TestStaffServiceSuite(t *testing.T) {
	suite.Run(t, new(StaffServiceSuite))
}

func (s *StaffServiceSuite) SetupTest() {
	s.now = time.Now().UTC().Truncate(time.Second)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.store = store.NewInMemory()
	s.trl = revocation.NewInMemoryTRL()
	s.tokens = token.NewJWTService("service-test-signing-key", "leadcrm", 15*time.Minute)
	s.service = New(s.store, s.tokens, s.trl)
}

func (s *StaffServiceSuite) createStaff(username, role string) {
	_, err := s.service.CreateStaff(s.ctx, &models.CreateStaffRequest{
		Username: username,
		Password: "correct-horse",
		Role:     role,
	})
	s.Require().NoError(err)
}

func (s *StaffServiceSuite) TestCreateStaff() {
	st, err := s.service.CreateStaff(s.ctx, &models.CreateStaffRequest{
		Username: "  Desk.One ",
		Password: "correct-horse",
	})
	s.Require().NoError(err)
	s.Equal("desk.one", st.Username)
	s.Equal("desk.one", st.DisplayName)
	s.Equal(models.RoleStaff, st.Role)
	s.True(st.Active)
	s.NotEqual("correct-horse", st.PasswordHash)

	_, err = s.service.CreateStaff(s.ctx, &models.CreateStaffRequest{Username: "DESK.ONE", Password: "another-pass"})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.CreateStaff(s.ctx, &models.CreateStaffRequest{Username: "desk.two", Password: "short"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StaffServiceSuite) TestLoginIssuesUsableToken() {
	s.createStaff("manager", models.RoleAdmin)

	result, err := s.service.Login(s.ctx, &models.LoginRequest{Username: "MANAGER", Password: "correct-horse"})
	s.Require().NoError(err)
	s.Equal("Bearer", result.TokenType)
	s.Equal(900, result.ExpiresIn)
	s.Equal("manager", result.Staff.Username)

	claims, err := s.tokens.ValidateToken(result.AccessToken)
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, claims.Role)
	staffID, err := claims.StaffID()
	s.Require().NoError(err)
	s.Equal(result.Staff.ID, staffID)
}

func (s *StaffServiceSuite) TestLoginFailuresAreIndistinguishable() {
	s.createStaff("desk.one", models.RoleStaff)
	inactive, err := s.store.FindByUsername(s.ctx, "desk.one")
	s.Require().NoError(err)
	inactive.ID = id.NewStaffID()
	inactive.Username = "retired"
	inactive.Active = false
	s.Require().NoError(s.store.Create(s.ctx, inactive))

	for _, req := range []*models.LoginRequest{
		{Username: "nobody", Password: "correct-horse"},
		{Username: "desk.one", Password: "wrong-password"},
		{Username: "retired", Password: "correct-horse"},
	} {
		_, err := s.service.Login(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), req.Username)
		s.EqualError(err, "invalid username or password", req.Username)
	}

	_, err = s.service.Login(s.ctx, &models.LoginRequest{Username: "desk.one"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *StaffServiceSuite) TestLogoutRevokesUntilExpiry() {
	s.createStaff("desk.one", models.RoleStaff)
	result, err := s.service.Login(s.ctx, &models.LoginRequest{Username: "desk.one", Password: "correct-horse"})
	s.Require().NoError(err)
	claims, err := s.tokens.ValidateToken(result.AccessToken)
	s.Require().NoError(err)

	ctx := requestcontext.WithStaff(s.ctx, result.Staff.ID, result.Staff.Role)
	ctx = requestcontext.WithToken(ctx, claims.ID, claims.ExpiresAt.Time)

	me, err := s.service.Me(ctx)
	s.Require().NoError(err)
	s.Equal(result.Staff.ID, me.ID)

	revoked, err := s.service.IsTokenRevoked(ctx, claims.ID)
	s.Require().NoError(err)
	s.False(revoked)

	s.Require().NoError(s.service.Logout(ctx))

	revoked, err = s.service.IsTokenRevoked(ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *StaffServiceSuite) TestLogoutWithoutToken() {
	err := s.service.Logout(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
