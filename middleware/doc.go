// Package middleware adapts goTokenAuth.Engine to net/http.
//
// [Guard] and [Optional] read a bearer access token from the Authorization
// header and attach the resolved user to the request context, where
// [UserFromContext] finds it. [LoginHandler] and [RefreshHandler] expose the
// two token-issuing operations as JSON endpoints; pass [WithLogger] to have
// them log each request.
//
// Errors are mapped by [StatusCode]: authentication failures are 401, rate
// limits 429, malformed request bodies 422, an unreachable limiter backend
// 503 and anything else 500.
package middleware
