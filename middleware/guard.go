package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

type userContextKey struct{}

// UserFromContext returns the user a guard attached to the request.
func UserFromContext(ctx context.Context) (goTokenAuth.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(goTokenAuth.User)
	return user, ok
}

// Guard rejects requests without a valid bearer access token. Each request
// gets its own goTokenAuth.Guard.
func Guard(engine *goTokenAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := authenticate(engine, r)
			if err != nil {
				WriteError(w, err)
				return
			}
			if !ok {
				WriteError(w, goTokenAuth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(engine *goTokenAuth.Engine, r *http.Request) (goTokenAuth.User, bool, error) {
	if engine == nil {
		return goTokenAuth.User{}, false, nil
	}

	credentials := map[string]any{}
	if token, ok := BearerToken(r.Header.Get("Authorization")); ok {
		credentials[goTokenAuth.CredentialToken] = token
	}

	guard := engine.NewGuard()
	ok, err := guard.Validate(requestContext(r), credentials)
	if err != nil || !ok {
		return goTokenAuth.User{}, false, err
	}

	user, _ := guard.User()
	return user, true, nil
}

// requestContext tags the request context with the caller's address so
// throttling and audit can see it.
func requestContext(r *http.Request) context.Context {
	return goTokenAuth.WithClientIP(r.Context(), clientIP(r))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// BearerToken extracts the token from an Authorization header value. The
// scheme match is case-insensitive.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
