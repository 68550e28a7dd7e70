package jwt

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Issuer mints token pairs. Both tokens of a pair share issuedAt and
// notBefore; each carries its kind in "typ" and a fresh random "jti", so two
// pairs issued in the same millisecond still differ.
type Issuer struct {
	signer     *Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
	newID      func() string
}

func NewIssuer(signer *Signer, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("issuer requires a signer")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	return &Issuer{
		signer:     signer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		newID:      uuid.NewString,
	}, nil
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Issue builds and signs an access and a refresh token for user at now.
// Custom extra claims are appended after "typ" and "jti"; custom entries using
// those reserved names are ignored.
func (i *Issuer) Issue(user ClaimsUser, now time.Time, extra ...ExtraClaim) (TokenPair, error) {
	now = toMillis(now)

	access, err := i.issueOne(user, now, i.accessTTL, TokenTypeAccess, extra)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.issueOne(user, now, i.refreshTTL, TokenTypeRefresh, extra)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) issueOne(user ClaimsUser, now time.Time, ttl time.Duration, kind string, custom []ExtraClaim) (string, error) {
	extra := Extra{
		{Name: ClaimType, Value: kind},
		{Name: ClaimID, Value: i.newID()},
	}
	for _, c := range custom {
		if c.Name == ClaimType || c.Name == ClaimID {
			continue
		}
		extra = extra.With(c.Name, c.Value)
	}

	claims, err := NewClaims(user, extra, now, now, now.Add(ttl))
	if err != nil {
		return "", err
	}
	return i.Encode(claims)
}

// Encode serializes and signs an arbitrary claim set.
func (i *Issuer) Encode(claims Claims) (string, error) {
	return i.signer.signToken(claims)
}
