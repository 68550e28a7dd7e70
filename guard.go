package goTokenAuth

import "context"

// CredentialToken is the credentials key Guard.Validate reads.
const CredentialToken = "token"

// Authenticator is the per-request contract a host HTTP layer drives.
type Authenticator interface {
	Validate(ctx context.Context, credentials map[string]any) (bool, error)
	User() (User, bool)
}

// Guard authenticates one request. It holds a single user slot and must
// not be shared across requests.
type Guard struct {
	engine *Engine
	user   *User
}

var _ Authenticator = (*Guard)(nil)

// NewGuard returns an unauthenticated guard bound to e.
func (e *Engine) NewGuard() *Guard {
	return &Guard{engine: e}
}

// Validate authenticates credentials[CredentialToken]. A missing or
// non-string token, or any token/user rejection, yields (false, nil).
// Only backend faults such as a failing user store return an error.
// The user slot is cleared on every call.
func (g *Guard) Validate(ctx context.Context, credentials map[string]any) (bool, error) {
	g.user = nil

	token, ok := credentials[CredentialToken].(string)
	if !ok {
		return false, nil
	}

	user, err := g.engine.Authenticate(ctx, token)
	if err != nil {
		if IsAuthFailure(err) {
			return false, nil
		}
		return false, err
	}

	g.user = &user
	return true, nil
}

// User returns the user resolved by the last successful Validate.
func (g *Guard) User() (User, bool) {
	if g.user == nil {
		return User{}, false
	}
	return *g.user, true
}
