package flows

import (
	"context"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// UserRecord is the flow-local view of a resolved user.
type UserRecord struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// ClaimsUser snapshots the identity fields that go into a token.
func (u UserRecord) ClaimsUser() jwt.ClaimsUser {
	return jwt.ClaimsUser{ID: u.ID, Email: u.Email}
}

// UserLookup resolves users for every flow.
type UserLookup struct {
	ByID    func(ctx context.Context, id string) (UserRecord, error)
	ByEmail func(ctx context.Context, email string) (UserRecord, error)
	// NotFound is the sentinel the lookup functions wrap for a missing user.
	NotFound error
}

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow.
type Deps struct {
	Issue    IssueDeps
	Login    LoginDeps
	Refresh  RefreshDeps
	Validate ValidateDeps
}

// IssuePairFunc mints a token pair for a user snapshot at now.
type IssuePairFunc func(user jwt.ClaimsUser, now time.Time) (jwt.TokenPair, error)
