package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// IssueFailureKind classifies issue-by-id failures.
type IssueFailureKind int

const (
	IssueFailureNone IssueFailureKind = iota
	IssueFailureUserNotFound
	IssueFailureUserLookup
	IssueFailureSign
)

type IssueResult struct {
	Failure IssueFailureKind
	Err     error
	User    UserRecord
	Pair    jwt.TokenPair
}

type IssueDeps struct {
	Now   func() time.Time
	Users UserLookup
	Issue IssuePairFunc
}

// RunIssue resolves userID and mints a fresh pair for it.
func RunIssue(ctx context.Context, userID string, deps IssueDeps) IssueResult {
	user, err := deps.Users.ByID(ctx, userID)
	if err != nil {
		if deps.Users.NotFound != nil && errors.Is(err, deps.Users.NotFound) {
			return IssueResult{Failure: IssueFailureUserNotFound, Err: err}
		}
		return IssueResult{Failure: IssueFailureUserLookup, Err: err}
	}

	pair, err := deps.Issue(user.ClaimsUser(), deps.Now())
	if err != nil {
		return IssueResult{Failure: IssueFailureSign, Err: err, User: user}
	}

	return IssueResult{User: user, Pair: pair}
}
