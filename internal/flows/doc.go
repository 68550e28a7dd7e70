// Package flows contains pure-function orchestrators for the Engine's token
// operations: issue, login, refresh and validate.
//
// Each Run* function accepts a typed dependency struct and returns a result
// value tagged with a failure kind instead of raising expected failures. The
// root package maps those kinds to its public sentinels, metrics and audit
// events.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goTokenAuth (to avoid import cycles).
//   - Perform I/O directly; user lookup and throttling arrive through deps.
package flows
