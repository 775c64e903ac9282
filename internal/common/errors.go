// Package common defines shared constants and sentinel errors used across
// the winelog server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors: bad input rejected before any side effect.
	ErrorValidation = errors.New("validation error")

	// Upstream errors: object storage or inference provider failures.
	ErrUploadFailed    = errors.New("image upload failed")
	ErrInferenceFailed = errors.New("inference failed")

	// ErrMalformedResponse marks inference output that could not be
	// interpreted as structured data.
	ErrMalformedResponse = errors.New("malformed inference response")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
