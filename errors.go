package goTokenAuth

import (
	"errors"

	"github.com/MrEthical07/goTokenAuth/internal/rate"
	"github.com/MrEthical07/goTokenAuth/jwt"
)

var (
	// ErrUserNotFound is returned when a token or login names a user the
	// provider no longer knows.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginRateLimited   = errors.New("login rate limited")
	ErrRefreshRateLimited = errors.New("refresh rate limited")
	// ErrRateLimiterUnavailable wraps Redis failures in the throttling layer.
	ErrRateLimiterUnavailable = rate.ErrRedisUnavailable
	ErrEngineNotReady         = errors.New("engine not initialized")
)

// Token errors, re-exported so callers can match without importing jwt.
var (
	ErrFailedParsing    = jwt.ErrFailedParsing
	ErrInvalidToken     = jwt.ErrInvalidToken
	ErrSigningFailure   = jwt.ErrSigningFailure
	ErrInvalidSignature = jwt.ErrInvalidSignature
	ErrTokenExpired     = jwt.ErrTokenExpired
	ErrTokenNotYetValid = jwt.ErrTokenNotYetValid
)

// IsAuthFailure reports whether err means "the caller is not authenticated"
// as opposed to a server-side fault.
func IsAuthFailure(err error) bool {
	return errors.Is(err, jwt.ErrFailedParsing) ||
		errors.Is(err, jwt.ErrInvalidToken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsRateLimited reports whether err is a throttling rejection.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrLoginRateLimited) || errors.Is(err, ErrRefreshRateLimited)
}
