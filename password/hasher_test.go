package password

import (
	"errors"
	"strings"
	"testing"
)

func fastConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newHasher(t *testing.T, cfg Config) *Hasher {
	t.Helper()
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newHasher(t, fastConfig())

	hash, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}
	if strings.Contains(hash, "=$") || strings.HasSuffix(hash, "=") {
		t.Fatalf("PHC fields must be unpadded: %s", hash)
	}

	ok, err := h.Verify("correct horse battery", hash)
	if err != nil || !ok {
		t.Fatalf("Verify: ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("wrong horse battery", hash)
	if err != nil {
		t.Fatalf("Verify wrong: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := newHasher(t, fastConfig())
	a, _ := h.Hash("same-password-twice")
	b, _ := h.Hash("same-password-twice")
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"memory", func(c *Config) { c.Memory = 1024 }},
		{"time", func(c *Config) { c.Time = 0 }},
		{"parallelism", func(c *Config) { c.Parallelism = 0 }},
		{"salt", func(c *Config) { c.SaltLength = 8 }},
		{"key", func(c *Config) { c.KeyLength = 8 }},
		{"max negative", func(c *Config) { c.MaxPasswordBytes = -1 }},
		{"max below min", func(c *Config) { c.MaxPasswordBytes = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fastConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestHashLengthBounds(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxPasswordBytes = 64
	h := newHasher(t, cfg)

	if _, err := h.Hash("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", 65)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}

	exact := strings.Repeat("b", 64)
	hash, err := h.Hash(exact)
	if err != nil {
		t.Fatalf("max-length password rejected: %v", err)
	}
	if _, err := h.Verify(strings.Repeat("c", 65), hash); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected Verify to reject long input, got %v", err)
	}
}

func TestDefaultMaxPasswordBytes(t *testing.T) {
	h := newHasher(t, fastConfig())
	if _, err := h.Hash(strings.Repeat("d", DefaultMaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("e", DefaultMaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d bytes to be accepted: %v", DefaultMaxPasswordBytes, err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := newHasher(t, fastConfig())
	good, err := h.Hash("malformed-input-base")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"not phc":       "not-a-phc-hash",
		"algorithm":     strings.Replace(good, "argon2id", "argon2i", 1),
		"version":       strings.Replace(good, "$v=19$", "$v=18$", 1),
		"params":        strings.Replace(good, "m=8192,t=1,p=1", "m=8192,t=1", 1),
		"dup params":    strings.Replace(good, "m=8192,t=1,p=1", "m=8192,m=8192,p=1", 1),
		"weak memory":   strings.Replace(good, "m=8192", "m=16", 1),
		"unknown param": strings.Replace(good, "p=1", "x=1", 1),
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := h.Verify("malformed-input-base", encoded); !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	old := newHasher(t, fastConfig())
	hash, err := old.Hash("upgrade-me-please")
	if err != nil {
		t.Fatal(err)
	}

	same, err := old.NeedsRehash(hash)
	if err != nil || same {
		t.Fatalf("same config: needs=%v err=%v", same, err)
	}

	stronger := fastConfig()
	stronger.Time = 2
	needs, err := newHasher(t, stronger).NeedsRehash(hash)
	if err != nil || !needs {
		t.Fatalf("stronger config: needs=%v err=%v", needs, err)
	}
}
