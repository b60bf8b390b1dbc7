// Package common defines shared constants and sentinel errors used across
// the jobfolio client and server. Callers should match these values with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRemote       = errors.New("remote store error")

	// Local precondition failures. These never reach the remote store.
	ErrValidation = errors.New("validation error")

	ErrAlreadyExists = errors.New("already exists")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
