package flows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// LoginFailureKind classifies login failures for root-level mapping.
type LoginFailureKind int

const (
	LoginFailureNone LoginFailureKind = iota
	LoginFailureRateLimited
	LoginFailureLimiter
	LoginFailureCredentials
	LoginFailureUserLookup
	LoginFailureStoredHash
	LoginFailureSign
)

type LoginResult struct {
	Failure LoginFailureKind
	Err     error
	User    UserRecord
	Pair    jwt.TokenPair
}

// LoginDeps captures login dependencies. The rate functions are optional; nil
// disables throttling.
type LoginDeps struct {
	Now                 func() time.Time
	ClientIPFromContext func(context.Context) string

	CheckLoginRate     func(ctx context.Context, email, ip string) error
	IncrementLoginRate func(ctx context.Context, email, ip string) error
	ResetLoginRate     func(ctx context.Context, email, ip string) error
	// RateLimited is the sentinel the rate functions return when over budget.
	// Any other error from CheckLoginRate is a limiter failure.
	RateLimited error

	Users          UserLookup
	VerifyPassword func(password, encodedHash string) (bool, error)
	// MalformedHash marks VerifyPassword errors caused by the stored hash
	// itself. Those are server faults, not credential failures.
	MalformedHash error
	Issue         IssuePairFunc

	// InvalidCredentials is returned for unknown users and wrong passwords alike.
	InvalidCredentials error
	Warn               func(string, ...any)
}

// RunLogin verifies email/password and issues a token pair.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{Failure: LoginFailureCredentials, Err: deps.InvalidCredentials}
	}

	ip := ""
	if deps.ClientIPFromContext != nil {
		ip = deps.ClientIPFromContext(ctx)
	}

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, email, ip); err != nil {
			if deps.RateLimited != nil && errors.Is(err, deps.RateLimited) {
				return LoginResult{Failure: LoginFailureRateLimited, Err: err}
			}
			return LoginResult{Failure: LoginFailureLimiter, Err: err}
		}
	}

	user, err := deps.Users.ByEmail(ctx, email)
	if err != nil {
		if deps.Users.NotFound != nil && errors.Is(err, deps.Users.NotFound) {
			recordLoginFailure(ctx, email, ip, deps)
			return LoginResult{Failure: LoginFailureCredentials, Err: deps.InvalidCredentials}
		}
		return LoginResult{Failure: LoginFailureUserLookup, Err: err}
	}

	ok, err := deps.VerifyPassword(password, user.PasswordHash)
	if err != nil && deps.MalformedHash != nil && errors.Is(err, deps.MalformedHash) {
		return LoginResult{Failure: LoginFailureStoredHash, Err: err, User: user}
	}
	if err != nil || !ok {
		recordLoginFailure(ctx, email, ip, deps)
		return LoginResult{Failure: LoginFailureCredentials, Err: deps.InvalidCredentials, User: user}
	}

	if deps.ResetLoginRate != nil {
		if err := deps.ResetLoginRate(ctx, email, ip); err != nil && deps.Warn != nil {
			deps.Warn("login rate reset failed", "error", err)
		}
	}

	pair, err := deps.Issue(user.ClaimsUser(), deps.Now())
	if err != nil {
		return LoginResult{Failure: LoginFailureSign, Err: err, User: user}
	}

	return LoginResult{User: user, Pair: pair}
}

func recordLoginFailure(ctx context.Context, email, ip string, deps LoginDeps) {
	if deps.IncrementLoginRate == nil {
		return
	}
	err := deps.IncrementLoginRate(ctx, email, ip)
	if err == nil || (deps.RateLimited != nil && errors.Is(err, deps.RateLimited)) {
		return
	}
	if deps.Warn != nil {
		deps.Warn("login rate increment failed", "error", err)
	}
}
