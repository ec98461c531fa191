// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Credential lifecycle errors. ErrRefreshFailed means the provider
	// rejected the refresh exchange or was unreachable; the stored
	// credential is left untouched in that case.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRefreshFailed    = errors.New("token refresh failed")

	// Provider fetch errors. Distinct from an exhausted page list, which is
	// reported as an empty result without an error.
	ErrFetchFailed = errors.New("activity fetch failed")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
