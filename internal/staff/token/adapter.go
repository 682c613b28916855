package token

import (
	authmw "leadcrm/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims converts validated claims to the middleware's view.
func ToMiddlewareClaims(claims *Claims) (*authmw.JWTClaims, error) {
	staffID, err := claims.StaffID()
	if err != nil {
		return nil, err
	}
	out := &authmw.JWTClaims{
		StaffID: staffID,
		Role:    claims.Role,
		JTI:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// MiddlewareAdapter satisfies authmw.JWTValidator.
type MiddlewareAdapter struct {
	service *JWTService
}

func NewMiddlewareAdapter(service *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims)
}
