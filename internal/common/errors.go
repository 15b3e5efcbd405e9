// Package common contains shared constants and sentinel errors used across
// Kvits components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository/store-level errors.
	ErrorNotFound = errors.New("not found")

	// Remote-boundary errors. ErrorConnectivity means the remote store is
	// unreachable; ErrorValidation means the remote rejected the document
	// shape. Anything else from the remote is wrapped as ErrorUnknown.
	ErrorConnectivity = errors.New("remote unreachable")
	ErrorValidation   = errors.New("remote rejected document")
	ErrorUnknown      = errors.New("unknown remote error")

	// Auth errors (missing, invalid or malformed session token).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
