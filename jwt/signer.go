package jwt

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names the asymmetric algorithm a [Signer] uses.
type SigningMethod string

const (
	MethodRS256   SigningMethod = "rs256"
	MethodEd25519 SigningMethod = "ed25519"
)

// KeyConfig carries already-loaded key material. PrivateKey may be empty for a
// verify-only signer; PublicKey may be empty when it can be derived from
// PrivateKey.
type KeyConfig struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
}

// Signer owns the key pair. It is immutable after construction and safe for
// concurrent use.
type Signer struct {
	method    gjwt.SigningMethod
	signKey   crypto.PrivateKey
	verifyKey crypto.PublicKey
}

// NewSigner parses the key material in cfg.
func NewSigner(cfg KeyConfig) (*Signer, error) {
	s := &Signer{}

	switch cfg.SigningMethod {
	case MethodRS256, "":
		s.method = gjwt.SigningMethodRS256
		if len(cfg.PrivateKey) > 0 {
			priv, err := parseRSAPrivateKey(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			s.signKey = priv
			s.verifyKey = &priv.PublicKey
		}
		if len(cfg.PublicKey) > 0 {
			pub, err := parseRSAPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			if priv, ok := s.signKey.(*rsa.PrivateKey); ok && !priv.PublicKey.Equal(pub) {
				return nil, errors.New("rsa public key does not match private key")
			}
			s.verifyKey = pub
		}
	case MethodEd25519:
		s.method = gjwt.SigningMethodEdDSA
		if len(cfg.PrivateKey) > 0 {
			priv, err := parseEdPrivateKey(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			s.signKey = priv
			s.verifyKey = priv.Public()
		}
		if len(cfg.PublicKey) > 0 {
			pub, err := parseEdPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			if priv, ok := s.signKey.(ed25519.PrivateKey); ok && !pub.Equal(priv.Public()) {
				return nil, errors.New("ed25519 public key does not match private key")
			}
			s.verifyKey = pub
		}
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}

	if s.verifyKey == nil {
		return nil, errors.New("signer requires a public or private key")
	}

	return s, nil
}

// Alg returns the JOSE algorithm name written into token headers.
func (s *Signer) Alg() string { return s.method.Alg() }

// CanSign reports whether a private key is loaded.
func (s *Signer) CanSign() bool { return s != nil && s.signKey != nil }

// PublicKey returns the verification key (*rsa.PublicKey or ed25519.PublicKey).
func (s *Signer) PublicKey() crypto.PublicKey { return s.verifyKey }

// Sign signs payload with the private key.
func (s *Signer) Sign(payload []byte) ([]byte, error) {
	if !s.CanSign() {
		return nil, fmt.Errorf("%w: no private key configured", ErrSigningFailure)
	}
	sig, err := s.method.Sign(string(payload), s.signKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}
	return sig, nil
}

// Verify checks signature over payload with the public key.
func (s *Signer) Verify(payload, signature []byte) error {
	if err := s.method.Verify(string(payload), signature, s.verifyKey); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// signToken frames claims as a JWT and signs it. A payload that cannot be
// encoded is returned as is; only key problems are ErrSigningFailure.
func (s *Signer) signToken(claims Claims) (string, error) {
	token := gjwt.NewWithClaims(s.method, payloadClaims{claims: claims})
	signingInput, err := token.SigningString()
	if err != nil {
		return "", err
	}
	sig, err := s.Sign([]byte(signingInput))
	if err != nil {
		return "", err
	}
	return signingInput + "." + token.EncodeSegment(sig), nil
}
