// Package rate implements Redis-backed fixed-window throttles for login and
// refresh.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key kinds:
//   - al:  failed logins per email
//   - ali: failed logins per client IP
//   - ar:  refresh redemptions per user id
//
// # What this package must NOT do
//
//   - Revoke or otherwise track issued tokens.
//   - Be imported outside the goTokenAuth module.
package rate
