// Package service manages staff accounts and their access tokens.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"leadcrm/internal/staff/models"
	"leadcrm/internal/staff/secrets"
	"leadcrm/internal/staff/token"
	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	"leadcrm/pkg/platform/sentinel"
	"leadcrm/pkg/requestcontext"
)

const tokenTypeBearer = "Bearer"

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")

type Store interface {
	Create(ctx context.Context, st *models.Staff) error
	FindByID(ctx context.Context, staffID id.StaffID) (*models.Staff, error)
	FindByUsername(ctx context.Context, username string) (*models.Staff, error)
}

// RevocationList remembers logged-out token IDs until they expire.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	store   Store
	tokens  *token.JWTService
	revoked RevocationList
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(store Store, tokens *token.JWTService, revoked RevocationList, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tokens:  tokens,
		revoked: revoked,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateStaff registers an active account with a bcrypt password hash.
func (s *Service) CreateStaff(ctx context.Context, req *models.CreateStaffRequest) (*models.Staff, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(req.Password)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	st := &models.Staff{
		ID:           id.NewStaffID(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if st.DisplayName == "" {
		st.DisplayName = st.Username
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, wrapStaffErr(err)
	}

	s.logger.InfoContext(ctx, "staff created",
		"event", "staff.created",
		"log_type", "audit",
		"staff_id", st.ID.String(),
		"role", st.Role,
		"created_by", requestcontext.StaffID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return st, nil
}

// Login exchanges credentials for an access token. Unknown users, inactive
// accounts and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	st, err := s.store.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logFailedLogin(ctx, req.Username, "unknown_user")
			return nil, errInvalidCredentials
		}
		return nil, wrapStaffErr(err)
	}
	if err := secrets.Verify(req.Password, st.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.logFailedLogin(ctx, req.Username, "bad_password")
			return nil, errInvalidCredentials
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	if !st.Active {
		s.logFailedLogin(ctx, req.Username, "inactive")
		return nil, errInvalidCredentials
	}

	signed, claims, err := s.tokens.Issue(st.ID, st.Role)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "staff logged in",
		"event", "staff.login",
		"log_type", "audit",
		"staff_id", st.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.LoginResult{
		AccessToken: signed,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		ExpiresAt:   claims.ExpiresAt.Time,
		Staff:       st,
	}, nil
}

func (s *Service) logFailedLogin(ctx context.Context, username, reason string) {
	s.logger.WarnContext(ctx, "staff login failed",
		"event", "staff.login_failed",
		"log_type", "audit",
		"username", username,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
}

// Logout revokes the token carried by the authenticated request until it
// would have expired.
func (s *Service) Logout(ctx context.Context) error {
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no access token in request")
	}
	ttl := requestcontext.TokenExpiry(ctx).Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.RevokeToken(ctx, jti, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}

	s.logger.InfoContext(ctx, "staff logged out",
		"event", "staff.logout",
		"log_type", "audit",
		"staff_id", requestcontext.StaffID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// IsTokenRevoked satisfies the auth middleware's revocation check.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked.IsRevoked(ctx, jti)
}

// Me returns the account behind the authenticated request.
func (s *Service) Me(ctx context.Context) (*models.Staff, error) {
	staffID := requestcontext.StaffID(ctx)
	if staffID.IsNil() {
		return nil, dErrors.New(dErrors.CodeNotFound, "staff not found")
	}
	st, err := s.store.FindByID(ctx, staffID)
	if err != nil {
		return nil, wrapStaffErr(err)
	}
	return st, nil
}

func wrapStaffErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "staff not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "username is already taken")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "staff store failure")
	}
}
