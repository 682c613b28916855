// Package sentinel defines infrastructure facts returned by stores.
//
// Stores wrap these so services can translate them into domain errors:
//   - ErrNotFound: the row does not exist
//   - ErrConflict: a write raced with another writer
//   - ErrAlreadyUsed: a unique key (form number, prefix, username) is taken
//   - ErrExpired: a token or window has lapsed
//   - ErrInvalidState: the entity is in the wrong state for the operation
//   - ErrUnavailable: a backing service is down
//
// Validation failures belong in pkg/domain-errors, not here.
package sentinel

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
