package goTokenAuth

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func drain(t *testing.T, sink *ChannelSink, n int) []AuditEvent {
	t.Helper()
	out := make([]AuditEvent, 0, n)
	deadline := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev := <-sink.Events():
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("timed out after %d of %d audit events", len(out), n)
		}
	}
	return out
}

func TestAuditLoginAndRefreshEvents(t *testing.T) {
	sink := NewChannelSink(16)
	f := newFixture(t, withSink(sink))
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	pair, err := f.engine.Login(ctx, "a@b.com", testPassword)
	require.NoError(t, err)
	_, err = f.engine.Login(ctx, "a@b.com", "wrong-password-123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.engine.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = f.engine.Refresh(ctx, pair.AccessToken)
	require.Error(t, err)

	events := drain(t, sink, 4)

	assert.Equal(t, auditEventLoginSuccess, events[0].EventType)
	assert.True(t, events[0].Success)
	assert.Equal(t, "42", events[0].UserID)
	assert.Equal(t, "203.0.113.9", events[0].IP)

	assert.Equal(t, auditEventLoginFailure, events[1].EventType)
	assert.Equal(t, string(auditErrInvalidCredentials), events[1].Error)

	assert.Equal(t, auditEventRefreshSuccess, events[2].EventType)
	assert.NotEmpty(t, events[2].TokenID, "refresh events carry the presented jti")

	assert.Equal(t, auditEventRefreshInvalid, events[3].EventType)
	assert.Equal(t, string(auditErrWrongTokenType), events[3].Error)
	assert.Equal(t, "token_type", events[3].Metadata["reason"])
}

func TestAuditRateLimitEvents(t *testing.T) {
	sink := NewChannelSink(16)
	mr := miniredis.RunT(t)
	f := newFixture(t, withSink(sink), withRedis(mr), withConfig(func(c *Config) {
		c.Security.MaxLoginAttempts = 1
	}))
	ctx := context.Background()

	_, _ = f.engine.Login(ctx, "a@b.com", "wrong-password-123")
	_, err := f.engine.Login(ctx, "a@b.com", testPassword)
	require.ErrorIs(t, err, ErrLoginRateLimited)

	events := drain(t, sink, 3)
	assert.Equal(t, auditEventLoginFailure, events[0].EventType)
	assert.Equal(t, auditEventLoginRateLimited, events[1].EventType)
	assert.Equal(t, string(auditErrRateLimited), events[1].Error)
	assert.Equal(t, auditEventRateLimitTriggered, events[2].EventType)
	assert.Equal(t, "login", events[2].Metadata["scope"])
}

func TestAuditNoSecretsInEvents(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	f := newFixture(t, withSink(sink))
	ctx := context.Background()

	pair, err := f.engine.Login(ctx, "a@b.com", testPassword)
	require.NoError(t, err)
	_, err = f.engine.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	f.engine.Close()

	out := buf.String()
	require.NotEmpty(t, out)
	for _, secret := range []string{testPassword, pair.AccessToken, pair.RefreshToken, f.user.PasswordHash} {
		assert.False(t, strings.Contains(out, secret), "audit output leaked a secret")
	}
}

func TestAuditDefaultsToZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := testConfig(t)
	cfg.Audit.Enabled = true

	f := newFixture(t)
	engine, err := New().
		WithConfig(cfg).
		WithUserProvider(f.provider).
		WithLogger(zap.New(core)).
		Build()
	require.NoError(t, err)

	_, err = engine.Login(context.Background(), "a@b.com", testPassword)
	require.NoError(t, err)
	engine.Close()

	entries := logs.Filter(func(e observer.LoggedEntry) bool {
		return e.LoggerName == "gotokenauth.audit"
	}).FilterMessage(auditEventLoginSuccess).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "42", entries[0].ContextMap()["user_id"])
}

func TestAuditErrorCodeMapping(t *testing.T) {
	assert.Equal(t, AuditErrorCode(""), auditErrorCode(nil))
	assert.Equal(t, auditErrMalformedToken, auditErrorCode(ErrFailedParsing))
	assert.Equal(t, auditErrInvalidSignature, auditErrorCode(ErrInvalidSignature))
	assert.Equal(t, auditErrTokenExpired, auditErrorCode(ErrTokenExpired))
	assert.Equal(t, auditErrTokenNotYetValid, auditErrorCode(ErrTokenNotYetValid))
	assert.Equal(t, auditErrUserNotFound, auditErrorCode(ErrUserNotFound))
	assert.Equal(t, auditErrRateLimited, auditErrorCode(ErrRefreshRateLimited))
	assert.Equal(t, auditErrSigningFailure, auditErrorCode(ErrSigningFailure))
	assert.Equal(t, auditErrUnavailable, auditErrorCode(ErrRateLimiterUnavailable))
	assert.Equal(t, auditErrInternal, auditErrorCode(assert.AnError))
}
