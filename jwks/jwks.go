// Package jwks publishes an engine's verification key as a JSON Web Key
// Set so other services can check tokens without sharing PEM files.
package jwks

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// ErrNoKey is returned for an engine without a usable public key.
var ErrNoKey = errors.New("jwks: no public key")

// NewSet wraps pub in a single-key set. The key id is the RFC 7638 SHA-256
// thumbprint so it stays stable across restarts with the same key.
func NewSet(pub crypto.PublicKey, alg string) (jwk.Set, error) {
	if pub == nil {
		return nil, ErrNoKey
	}

	key, err := jwk.FromRaw(pub)
	if err != nil {
		return nil, fmt.Errorf("jwks: import key: %w", err)
	}
	kid, err := KeyID(key)
	if err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, fmt.Errorf("jwks: set kid: %w", err)
	}
	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, fmt.Errorf("jwks: set use: %w", err)
	}
	if alg != "" {
		if err := key.Set(jwk.AlgorithmKey, jwa.SignatureAlgorithm(alg)); err != nil {
			return nil, fmt.Errorf("jwks: set alg: %w", err)
		}
	}

	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, fmt.Errorf("jwks: add key: %w", err)
	}
	return set, nil
}

// FromEngine builds the set for engine's verification key.
func FromEngine(engine *goTokenAuth.Engine) (jwk.Set, error) {
	if engine == nil {
		return nil, ErrNoKey
	}
	return NewSet(engine.PublicKey(), engine.SigningAlgorithm())
}

// KeyID returns the base64url SHA-256 thumbprint of key.
func KeyID(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("jwks: thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum), nil
}

// Handler serves the engine's key set. The document is rendered once.
func Handler(engine *goTokenAuth.Engine) (http.Handler, error) {
	set, err := FromEngine(engine)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("jwks: marshal: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/jwk-set+json")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	}), nil
}
