package goTokenAuth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
	"github.com/MrEthical07/goTokenAuth/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testPassword = "correct-password-123"

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testProvider struct {
	mu      sync.Mutex
	byID    map[string]User
	byIDErr error
	calls   int
}

func newTestProvider(users ...User) *testProvider {
	p := &testProvider{byID: map[string]User{}}
	for _, u := range users {
		p.byID[u.ID] = u
	}
	return p
}

func (p *testProvider) GetUserByID(_ context.Context, id string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.byIDErr != nil {
		return User{}, p.byIDErr
	}
	u, ok := p.byID[id]
	if !ok {
		return User{}, fmt.Errorf("%w: id %s", ErrUserNotFound, id)
	}
	return u, nil
}

func (p *testProvider) GetUserByEmail(_ context.Context, email string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	for _, u := range p.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (p *testProvider) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, id)
}

func (p *testProvider) put(u User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[u.ID] = u
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var (
	keyOnce sync.Once
	edPriv  []byte
	edPub   []byte
	keyErr  error
)

func testKeyPair(t testing.TB) ([]byte, []byte) {
	t.Helper()
	keyOnce.Do(func() {
		edPriv, edPub, keyErr = jwt.GenerateKeyPair(jwt.MethodEd25519)
	})
	if keyErr != nil {
		t.Fatalf("generate keys: %v", keyErr)
	}
	return edPriv, edPub
}

// fastPasswordConfig keeps argon2 cheap in tests.
func fastPasswordConfig() PasswordConfig {
	return PasswordConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func testConfig(t testing.TB) Config {
	t.Helper()
	priv, pub := testKeyPair(t)
	cfg := DefaultConfig()
	cfg.JWT.SigningMethod = string(jwt.MethodEd25519)
	cfg.JWT.PrivateKey = cloneBytes(priv)
	cfg.JWT.PublicKey = cloneBytes(pub)
	cfg.Password = fastPasswordConfig()
	return cfg
}

func hashPassword(t testing.TB, plain string) string {
	t.Helper()
	h, err := password.New(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	encoded, err := h.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return encoded
}

type engineFixture struct {
	engine   *Engine
	provider *testProvider
	clock    *testClock
	user     User
}

type fixtureOption func(*Config, *Builder)

func withRedis(mr *miniredis.Miniredis) fixtureOption {
	return func(_ *Config, b *Builder) {
		b.WithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	}
}

func withConfig(mutate func(*Config)) fixtureOption {
	return func(c *Config, _ *Builder) { mutate(c) }
}

func withSink(sink AuditSink) fixtureOption {
	return func(c *Config, b *Builder) {
		c.Audit.Enabled = true
		b.WithAuditSink(sink)
	}
}

func newFixture(t testing.TB, opts ...fixtureOption) *engineFixture {
	t.Helper()

	user := User{ID: "42", Email: "a@b.com", Name: "Ada", PasswordHash: hashPassword(t, testPassword)}
	provider := newTestProvider(user)
	clock := &testClock{now: t0}

	cfg := testConfig(t)
	b := New().WithUserProvider(provider).WithClock(clock.Now)
	for _, opt := range opts {
		opt(&cfg, b)
	}

	engine, err := b.WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(engine.Close)

	return &engineFixture{engine: engine, provider: provider, clock: clock, user: user}
}
