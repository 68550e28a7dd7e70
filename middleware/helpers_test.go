package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	"github.com/MrEthical07/goTokenAuth/jwt"
	"github.com/MrEthical07/goTokenAuth/password"
	"github.com/MrEthical07/goTokenAuth/userstore"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct-password-123"
)

var (
	keysOnce sync.Once
	privPEM  []byte
	pubPEM   []byte
	keysErr  error
)

func newTestEngine(t *testing.T, mutate ...func(*goTokenAuth.Config)) (*goTokenAuth.Engine, *userstore.MemoryStore) {
	t.Helper()

	keysOnce.Do(func() {
		privPEM, pubPEM, keysErr = jwt.GenerateKeyPair(jwt.MethodEd25519)
	})
	if keysErr != nil {
		t.Fatalf("keygen: %v", keysErr)
	}

	pwCfg := password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	hasher, err := password.New(pwCfg)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	store := userstore.NewMemory(goTokenAuth.User{ID: "42", Email: testEmail, Name: "Ada", PasswordHash: hash})

	cfg := goTokenAuth.DefaultConfig()
	cfg.JWT.SigningMethod = string(jwt.MethodEd25519)
	cfg.JWT.PrivateKey = privPEM
	cfg.JWT.PublicKey = pubPEM
	cfg.Password = goTokenAuth.PasswordConfig{
		Memory:      pwCfg.Memory,
		Time:        pwCfg.Time,
		Parallelism: pwCfg.Parallelism,
		SaltLength:  pwCfg.SaltLength,
		KeyLength:   pwCfg.KeyLength,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	engine, err := goTokenAuth.New().WithConfig(cfg).WithUserProvider(store).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, store
}

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodePair(t *testing.T, rec *httptest.ResponseRecorder) goTokenAuth.TokenPair {
	t.Helper()
	var pair goTokenAuth.TokenPair
	if err := json.NewDecoder(rec.Body).Decode(&pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	return pair
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return body.Error
}
