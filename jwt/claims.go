package jwt

import (
	"errors"
	"time"
)

const (
	// ClaimType is the reserved extra claim naming the token kind.
	ClaimType = "typ"
	// ClaimID is the reserved extra claim holding the per-token random identifier.
	ClaimID = "jti"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ClaimsUser is the identity snapshot embedded in an access token.
type ClaimsUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RefreshTokenClaimsUser is the identity snapshot embedded in a refresh token.
// Only ID is trusted when a refresh token is redeemed.
type RefreshTokenClaimsUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ClaimsUser projects the refresh identity onto the access identity type.
func (u RefreshTokenClaimsUser) ClaimsUser() ClaimsUser {
	return ClaimsUser{ID: u.ID, Email: u.Email}
}

// Claims is the decoded payload of a token. The zero value is not usable;
// instances come from [NewClaims], the [Parser] or the [Issuer] and are never
// mutated afterwards.
type Claims struct {
	user      ClaimsUser
	extra     Extra
	issuedAt  time.Time
	notBefore time.Time
	expiresAt time.Time
}

// NewClaims builds an immutable claim set. Timestamps are truncated to
// millisecond precision, the resolution of the wire format.
func NewClaims(user ClaimsUser, extra Extra, issuedAt, notBefore, expiresAt time.Time) (Claims, error) {
	c := Claims{
		user:      user,
		extra:     extra.clone(),
		issuedAt:  toMillis(issuedAt),
		notBefore: toMillis(notBefore),
		expiresAt: toMillis(expiresAt),
	}
	if err := c.check(); err != nil {
		return Claims{}, err
	}
	return c, nil
}

func (c Claims) check() error {
	if c.notBefore.After(c.expiresAt) {
		return errors.New("notBefore must not be after expiresAt")
	}
	if c.issuedAt.After(c.expiresAt) {
		return errors.New("issuedAt must not be after expiresAt")
	}
	return nil
}

func (c Claims) User() ClaimsUser { return c.user }

// RefreshUser returns the identity typed as a refresh-token subject.
func (c Claims) RefreshUser() RefreshTokenClaimsUser {
	return RefreshTokenClaimsUser{ID: c.user.ID, Email: c.user.Email}
}

// Extra returns a copy of the custom claims in their original order.
func (c Claims) Extra() Extra { return c.extra.clone() }

func (c Claims) IssuedAt() time.Time  { return c.issuedAt }
func (c Claims) NotBefore() time.Time { return c.notBefore }
func (c Claims) ExpiresAt() time.Time { return c.expiresAt }

// TokenType returns the "typ" extra claim, or "" when absent or not a string.
func (c Claims) TokenType() string {
	v, _ := c.extra.Get(ClaimType)
	s, _ := v.(string)
	return s
}

// TokenID returns the "jti" extra claim, or "" when absent or not a string.
func (c Claims) TokenID() string {
	v, _ := c.extra.Get(ClaimID)
	s, _ := v.(string)
	return s
}

// CheckWindow reports whether now lies inside [NotBefore, ExpiresAt].
// Both bounds are inclusive. The returned error matches ErrInvalidToken.
func (c Claims) CheckWindow(now time.Time) error {
	if now.Before(c.notBefore) {
		return ErrTokenNotYetValid
	}
	if now.After(c.expiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// CheckType rejects a claim set explicitly typed as something other than want.
// Untyped tokens pass.
func (c Claims) CheckType(want string) error {
	got := c.TokenType()
	if got == "" || got == want {
		return nil
	}
	return ErrWrongTokenType
}

func toMillis(t time.Time) time.Time {
	return fromMillis(t.UnixMilli())
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
