package jwt

import (
	"time"
)

// Config describes the token subsystem: lifetimes plus key material.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
}

// Manager bundles a [Signer], [Parser] and [Issuer] built from one [Config].
// It is immutable and safe for concurrent use.
type Manager struct {
	signer *Signer
	parser *Parser
	issuer *Issuer
}

func NewManager(cfg Config) (*Manager, error) {
	signer, err := NewSigner(KeyConfig{
		SigningMethod: cfg.SigningMethod,
		PrivateKey:    cfg.PrivateKey,
		PublicKey:     cfg.PublicKey,
	})
	if err != nil {
		return nil, err
	}
	issuer, err := NewIssuer(signer, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &Manager{
		signer: signer,
		parser: NewParser(signer),
		issuer: issuer,
	}, nil
}

func (m *Manager) Signer() *Signer { return m.signer }
func (m *Manager) Issuer() *Issuer { return m.issuer }

// Issue mints a token pair for user at now.
func (m *Manager) Issue(user ClaimsUser, now time.Time, extra ...ExtraClaim) (TokenPair, error) {
	return m.issuer.Issue(user, now, extra...)
}

// Parse decodes token without checking its time window.
func (m *Manager) Parse(token string) (Claims, error) {
	return m.parser.Parse(token)
}

// ParseValid decodes token and checks that now falls inside its window.
func (m *Manager) ParseValid(token string, now time.Time) (Claims, error) {
	claims, err := m.parser.Parse(token)
	if err != nil {
		return Claims{}, err
	}
	if err := claims.CheckWindow(now); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
