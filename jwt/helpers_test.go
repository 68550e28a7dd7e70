package jwt

import (
	"sync"
	"testing"
	"time"
)

type pemPair struct {
	priv []byte
	pub  []byte
}

var (
	keyCacheMu sync.Mutex
	keyCache   = map[string]pemPair{}
)

// testKeys returns a PEM key pair for method, cached per name so RSA
// generation runs once per distinct name.
func testKeys(t testing.TB, method SigningMethod, name string) ([]byte, []byte) {
	t.Helper()
	keyCacheMu.Lock()
	defer keyCacheMu.Unlock()

	cacheKey := string(method) + "/" + name
	if kp, ok := keyCache[cacheKey]; ok {
		return kp.priv, kp.pub
	}
	priv, pub, err := GenerateKeyPair(method)
	if err != nil {
		t.Fatalf("generate %s keys: %v", method, err)
	}
	keyCache[cacheKey] = pemPair{priv: priv, pub: pub}
	return priv, pub
}

func newTestManager(t testing.TB, method SigningMethod) *Manager {
	t.Helper()
	priv, pub := testKeys(t, method, "primary")
	m, err := NewManager(Config{
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		SigningMethod: method,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

var testUser = ClaimsUser{ID: "42", Email: "a@b.com"}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 123_456_789, time.UTC)
