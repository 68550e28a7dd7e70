package middleware

import (
	"context"
	"net/http"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// Optional attaches the user when the request carries a valid access token
// and passes every other request through untouched. Backend failures still
// fail the request.
func Optional(engine *goTokenAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := authenticate(engine, r)
			if err != nil {
				WriteError(w, err)
				return
			}
			if ok {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey{}, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
