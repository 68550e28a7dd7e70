// Package goTokenAuth issues, refreshes and validates signed access/refresh
// token pairs, and exposes a per-request [Guard] an HTTP layer can drive.
//
// Tokens are self-contained: the engine keeps no record of what it issued.
// An access token is presented on every request; a refresh token is only
// traded in for a new pair. Redeeming a refresh token does not revoke it.
//
// # Architecture boundaries
//
// goTokenAuth is the public surface: [Engine], [Builder], [Config], [Guard]
// and value types. Token encoding, signing and parsing live in the jwt
// package. Flow orchestration, throttling and audit dispatch live under
// internal/ and are never exported. User persistence is the caller's
// concern, reached through [UserProvider].
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build]. A Guard belongs to one request.
//
// # Errors
//
// Token failures match [ErrFailedParsing] or [ErrInvalidToken] under
// errors.Is. [IsAuthFailure] groups everything that should map to
// "unauthenticated"; any other error is a server-side fault.
package goTokenAuth
