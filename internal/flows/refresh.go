package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureParse
	RefreshFailureWindow
	RefreshFailureTokenType
	RefreshFailureRateLimited
	RefreshFailureLimiter
	RefreshFailureUserNotFound
	RefreshFailureUserLookup
	RefreshFailureSign
)

// RefreshResult carries either the new pair or failure metadata. Err is the
// underlying error, unchanged, so parser failures reach the caller as-is.
type RefreshResult struct {
	Failure RefreshFailureKind
	Err     error
	UserID  string
	TokenID string
	User    UserRecord
	Pair    jwt.TokenPair
}

type RefreshRateLimiter interface {
	CheckRefresh(ctx context.Context, userID string) error
}

type RefreshDeps struct {
	Now         func() time.Time
	ParseToken  func(string) (jwt.Claims, error)
	RateLimiter RefreshRateLimiter
	RateLimited error
	Users       UserLookup
	Issue       IssuePairFunc
}

// RunRefresh redeems a refresh token for a brand-new pair. The presented
// token stays valid until it expires; nothing is revoked.
func RunRefresh(ctx context.Context, refreshToken string, deps RefreshDeps) RefreshResult {
	claims, err := deps.ParseToken(refreshToken)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureParse, Err: err}
	}

	now := deps.Now()
	subject := claims.RefreshUser()
	tokenID := claims.TokenID()
	if err := claims.CheckWindow(now); err != nil {
		return RefreshResult{Failure: RefreshFailureWindow, Err: err, UserID: subject.ID, TokenID: tokenID}
	}
	if err := claims.CheckType(jwt.TokenTypeRefresh); err != nil {
		return RefreshResult{Failure: RefreshFailureTokenType, Err: err, UserID: subject.ID, TokenID: tokenID}
	}

	if deps.RateLimiter != nil {
		if err := deps.RateLimiter.CheckRefresh(ctx, subject.ID); err != nil {
			kind := RefreshFailureLimiter
			if deps.RateLimited != nil && errors.Is(err, deps.RateLimited) {
				kind = RefreshFailureRateLimited
			}
			return RefreshResult{Failure: kind, Err: err, UserID: subject.ID, TokenID: tokenID}
		}
	}

	// Only the id is trusted; email and name come from the fresh lookup.
	user, err := deps.Users.ByID(ctx, subject.ID)
	if err != nil {
		if deps.Users.NotFound != nil && errors.Is(err, deps.Users.NotFound) {
			return RefreshResult{Failure: RefreshFailureUserNotFound, Err: err, UserID: subject.ID, TokenID: tokenID}
		}
		return RefreshResult{Failure: RefreshFailureUserLookup, Err: err, UserID: subject.ID, TokenID: tokenID}
	}

	pair, err := deps.Issue(user.ClaimsUser(), now)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureSign, Err: err, UserID: user.ID, TokenID: tokenID, User: user}
	}

	return RefreshResult{UserID: user.ID, TokenID: tokenID, User: user, Pair: pair}
}
