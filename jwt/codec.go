package jwt

import (
	"encoding/json"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// TokenPair is the access/refresh bundle returned by issuance and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type wireUser struct {
	ID    *string `json:"id"`
	Email *string `json:"email"`
}

type wireClaims struct {
	User      *wireUser `json:"user"`
	Extra     Extra     `json:"extra"`
	IssuedAt  *int64    `json:"issuedAt"`
	NotBefore *int64    `json:"notBefore"`
	ExpiresAt *int64    `json:"expiresAt"`
}

// MarshalJSON encodes the claim set in wire form.
func (c Claims) MarshalJSON() ([]byte, error) {
	id, email := c.user.ID, c.user.Email
	iat, nbf, exp := c.issuedAt.UnixMilli(), c.notBefore.UnixMilli(), c.expiresAt.UnixMilli()
	extra := c.extra
	if extra == nil {
		extra = Extra{}
	}
	return json.Marshal(wireClaims{
		User:      &wireUser{ID: &id, Email: &email},
		Extra:     extra,
		IssuedAt:  &iat,
		NotBefore: &nbf,
		ExpiresAt: &exp,
	})
}

func decodeClaims(payload []byte) (Claims, error) {
	var w wireClaims
	if err := json.Unmarshal(payload, &w); err != nil {
		return Claims{}, parsingError("invalid payload: " + err.Error())
	}
	switch {
	case w.User == nil:
		return Claims{}, parsingError("missing user")
	case w.User.ID == nil:
		return Claims{}, parsingError("missing user.id")
	case w.User.Email == nil:
		return Claims{}, parsingError("missing user.email")
	case w.IssuedAt == nil:
		return Claims{}, parsingError("missing issuedAt")
	case w.NotBefore == nil:
		return Claims{}, parsingError("missing notBefore")
	case w.ExpiresAt == nil:
		return Claims{}, parsingError("missing expiresAt")
	}

	c := Claims{
		user:      ClaimsUser{ID: *w.User.ID, Email: *w.User.Email},
		extra:     w.Extra,
		issuedAt:  fromMillis(*w.IssuedAt),
		notBefore: fromMillis(*w.NotBefore),
		expiresAt: fromMillis(*w.ExpiresAt),
	}
	if err := c.check(); err != nil {
		return Claims{}, parsingError(err.Error())
	}
	return c, nil
}

// payloadClaims adapts a claim set to gjwt.Claims so golang-jwt frames, signs
// and splits tokens. The registered-claim getters are empty: the payload keeps
// its own millisecond fields and the window is judged by [Claims.CheckWindow].
//
// On decode the strict mapping result is held in err rather than returned, so
// a bad signature is reported before a bad payload shape.
type payloadClaims struct {
	claims Claims
	err    error
}

func (p payloadClaims) MarshalJSON() ([]byte, error) { return p.claims.MarshalJSON() }

func (p *payloadClaims) UnmarshalJSON(b []byte) error {
	p.claims, p.err = decodeClaims(b)
	return nil
}

func (payloadClaims) GetExpirationTime() (*gjwt.NumericDate, error) { return nil, nil }
func (payloadClaims) GetIssuedAt() (*gjwt.NumericDate, error)       { return nil, nil }
func (payloadClaims) GetNotBefore() (*gjwt.NumericDate, error)      { return nil, nil }
func (payloadClaims) GetIssuer() (string, error)                    { return "", nil }
func (payloadClaims) GetSubject() (string, error)                   { return "", nil }
func (payloadClaims) GetAudience() (gjwt.ClaimStrings, error)       { return nil, nil }
