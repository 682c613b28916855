// Package models defines staff accounts and the login exchange.
package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "leadcrm/pkg/domain"
	dErrors "leadcrm/pkg/domain-errors"
	str "leadcrm/pkg/platform/strings"
)

// Roles.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

var Roles = id.Choices{
	{Value: RoleStaff, Label: "Staff"},
	{Value: RoleAdmin, Label: "Administrator"},
}

// MinPasswordLength applies to new accounts.
const MinPasswordLength = 8

const usernamePattern = `^[a-z0-9][a-z0-9._-]{2,63}$`

// Staff is a back-office account. Usernames are unique ignoring case.
type Staff struct {
	ID           id.StaffID `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s *Staff) Clone() *Staff {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// NormalizeUsername folds a username to its stored form.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

type CreateStaffRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

func (r *CreateStaffRequest) Normalize() {
	r.Username = NormalizeUsername(r.Username)
	r.DisplayName = str.CollapseSpace(r.DisplayName)
	r.Role = id.Normalize(r.Role)
	if r.Role == "" {
		r.Role = RoleStaff
	}
}

func (r *CreateStaffRequest) Validate() error {
	if !govalidator.Matches(r.Username, usernamePattern) {
		return dErrors.NewValidation("username must be 3-64 characters of letters, digits, dot, dash or underscore", "username")
	}
	if !govalidator.StringLength(r.DisplayName, "0", "100") {
		return dErrors.NewValidation("display name is too long", "display_name")
	}
	if len(r.Password) < MinPasswordLength {
		return dErrors.NewValidation("password must be at least 8 characters", "password")
	}
	if !Roles.Valid(r.Role) {
		return dErrors.NewValidation("role must be staff or admin", "role")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Username = NormalizeUsername(r.Username)
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return dErrors.NewValidation("username and password are required", "username", "password")
	}
	return nil
}

// LoginResult carries a bearer access token.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	Staff       *Staff    `json:"staff"`
}
