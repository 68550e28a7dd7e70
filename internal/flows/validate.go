package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// ValidateFailureKind classifies access-token validation failures.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureParse
	ValidateFailureWindow
	ValidateFailureTokenType
	ValidateFailureUserNotFound
	ValidateFailureUserLookup
)

type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error
	Claims  jwt.Claims
	User    UserRecord
}

// Expected reports whether the failure is an ordinary authentication miss
// rather than an infrastructure error.
func (r ValidateResult) Expected() bool {
	switch r.Failure {
	case ValidateFailureParse, ValidateFailureWindow, ValidateFailureTokenType, ValidateFailureUserNotFound:
		return true
	default:
		return false
	}
}

type ValidateDeps struct {
	Now        func() time.Time
	ParseToken func(string) (jwt.Claims, error)
	Users      UserLookup
}

// RunValidate parses an access token, checks its window and kind, then
// resolves the user it names.
func RunValidate(ctx context.Context, token string, deps ValidateDeps) ValidateResult {
	claims, err := deps.ParseToken(token)
	if err != nil {
		return ValidateResult{Failure: ValidateFailureParse, Err: err}
	}
	if err := claims.CheckWindow(deps.Now()); err != nil {
		return ValidateResult{Failure: ValidateFailureWindow, Err: err, Claims: claims}
	}
	if err := claims.CheckType(jwt.TokenTypeAccess); err != nil {
		return ValidateResult{Failure: ValidateFailureTokenType, Err: err, Claims: claims}
	}

	user, err := deps.Users.ByID(ctx, claims.User().ID)
	if err != nil {
		if deps.Users.NotFound != nil && errors.Is(err, deps.Users.NotFound) {
			return ValidateResult{Failure: ValidateFailureUserNotFound, Err: err, Claims: claims}
		}
		return ValidateResult{Failure: ValidateFailureUserLookup, Err: err, Claims: claims}
	}

	return ValidateResult{Claims: claims, User: user}
}
