package goTokenAuth

import (
	"context"
	"crypto"
	"time"

	internalaudit "github.com/MrEthical07/goTokenAuth/internal/audit"
	"github.com/MrEthical07/goTokenAuth/internal/flows"
	"github.com/MrEthical07/goTokenAuth/internal/rate"
	"github.com/MrEthical07/goTokenAuth/jwt"
	"github.com/MrEthical07/goTokenAuth/password"
	"go.uber.org/zap"
)

// Engine issues, refreshes and validates token pairs. It holds no
// per-request state and is safe for concurrent use once built.
type Engine struct {
	config       Config
	jwtManager   *jwt.Manager
	passwordHash *password.Hasher
	rateLimiter  *rate.Limiter
	userProvider UserProvider
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	logger       *zap.Logger
	now          func() time.Time
	flows        flows.Deps
}

// Close flushes pending audit events and stops the dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
	_ = e.logger.Sync()
}

// AuditDropped reports audit events discarded because the buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// PublicKey returns the verification key, for publication as a JWKS.
func (e *Engine) PublicKey() crypto.PublicKey {
	return e.jwtManager.Signer().PublicKey()
}

// SigningAlgorithm returns the JOSE alg written into token headers.
func (e *Engine) SigningAlgorithm() string {
	return e.jwtManager.Signer().Alg()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) tokenRejected(err error) {
	if id, ok := tokenFailureMetric(err); ok {
		e.metricInc(id)
	}
}

// IssueFor mints a pair for user at now without any lookup.
func (e *Engine) IssueFor(user ClaimsUser, now time.Time) (TokenPair, error) {
	if e == nil || e.jwtManager == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	pair, err := e.issuePair(user, now)
	if err != nil {
		e.logger.Error("token signing failed", zap.Error(err))
		return TokenPair{}, err
	}
	return pair, nil
}

func (e *Engine) issuePair(user jwt.ClaimsUser, now time.Time) (jwt.TokenPair, error) {
	pair, err := e.jwtManager.Issue(user, now)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		return jwt.TokenPair{}, err
	}
	e.metricInc(MetricIssueSuccess)
	return pair, nil
}

// Issue resolves userID through the UserProvider and mints a pair at the
// engine clock.
func (e *Engine) Issue(ctx context.Context, userID string) (TokenPair, error) {
	if e == nil || e.jwtManager == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	result := flows.RunIssue(ctx, userID, e.flows.Issue)
	switch result.Failure {
	case flows.IssueFailureNone:
	case flows.IssueFailureSign:
		e.logger.Error("token signing failed", zap.Error(result.Err))
		return TokenPair{}, result.Err
	default:
		e.logger.Debug("issue rejected", zap.String("user_id", userID), zap.Error(result.Err))
		return TokenPair{}, result.Err
	}

	e.emitAudit(ctx, auditEventTokenIssued, true, result.User.ID, "", nil, nil)
	return result.Pair, nil
}

// Login verifies email and password, then mints a pair. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if e == nil || e.jwtManager == nil || e.passwordHash == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	result := flows.RunLogin(ctx, email, password, e.flows.Login)
	switch result.Failure {
	case flows.LoginFailureNone:
		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, auditEventLoginSuccess, true, result.User.ID, "", nil, nil)
		return result.Pair, nil
	case flows.LoginFailureRateLimited:
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", "", ErrLoginRateLimited, nil)
		e.emitRateLimit(ctx, "login", "")
		return TokenPair{}, ErrLoginRateLimited
	case flows.LoginFailureLimiter:
		e.metricInc(MetricLoginFailure)
		e.logger.Warn("login throttle unavailable", zap.Error(result.Err))
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", result.Err, nil)
		return TokenPair{}, result.Err
	case flows.LoginFailureCredentials:
		e.metricInc(MetricLoginFailure)
		e.logger.Debug("login rejected", zap.String("reason", "invalid_credentials"))
		e.emitAudit(ctx, auditEventLoginFailure, false, result.User.ID, "", ErrInvalidCredentials, nil)
		return TokenPair{}, ErrInvalidCredentials
	case flows.LoginFailureStoredHash:
		e.metricInc(MetricLoginFailure)
		e.logger.Error("stored password hash unusable", zap.String("user_id", result.User.ID), zap.Error(result.Err))
		e.emitAudit(ctx, auditEventLoginFailure, false, result.User.ID, "", result.Err, nil)
		return TokenPair{}, result.Err
	case flows.LoginFailureSign:
		e.metricInc(MetricLoginFailure)
		e.logger.Error("token signing failed", zap.Error(result.Err))
		e.emitAudit(ctx, auditEventLoginFailure, false, result.User.ID, "", result.Err, nil)
		return TokenPair{}, result.Err
	default:
		e.metricInc(MetricLoginFailure)
		e.logger.Warn("login user lookup failed", zap.Error(result.Err))
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", result.Err, nil)
		return TokenPair{}, result.Err
	}
}

// Refresh redeems refreshToken for a new pair. Parser errors come back
// unchanged. The presented token is not revoked and stays redeemable until
// it expires.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if e == nil || e.jwtManager == nil {
		return TokenPair{}, ErrEngineNotReady
	}

	result := flows.RunRefresh(ctx, refreshToken, e.flows.Refresh)
	if result.Failure == flows.RefreshFailureNone {
		e.metricInc(MetricRefreshSuccess)
		e.emitAudit(ctx, auditEventRefreshSuccess, true, result.UserID, result.TokenID, nil, nil)
		return result.Pair, nil
	}

	err := result.Err
	reason := ""
	switch result.Failure {
	case flows.RefreshFailureParse:
		reason = "parse"
		e.tokenRejected(err)
	case flows.RefreshFailureWindow:
		reason = "window"
		e.tokenRejected(err)
	case flows.RefreshFailureTokenType:
		reason = "token_type"
		e.tokenRejected(err)
	case flows.RefreshFailureRateLimited:
		e.metricInc(MetricRefreshRateLimited)
		e.emitAudit(ctx, auditEventRefreshRateLimited, false, result.UserID, result.TokenID, ErrRefreshRateLimited, nil)
		e.emitRateLimit(ctx, "refresh", result.UserID)
		return TokenPair{}, ErrRefreshRateLimited
	case flows.RefreshFailureLimiter:
		reason = "limiter"
		e.logger.Warn("refresh throttle unavailable", zap.Error(err))
	case flows.RefreshFailureUserNotFound:
		reason = "user_not_found"
		e.metricInc(MetricRefreshUserNotFound)
	case flows.RefreshFailureUserLookup:
		reason = "user_lookup"
		e.logger.Warn("refresh user lookup failed", zap.String("user_id", result.UserID), zap.Error(err))
	case flows.RefreshFailureSign:
		reason = "sign"
		e.logger.Error("token signing failed", zap.Error(err))
	}

	e.metricInc(MetricRefreshFailure)
	e.logger.Debug("refresh rejected", zap.String("reason", reason), zap.Error(err))
	e.emitAudit(ctx, auditEventRefreshInvalid, false, result.UserID, result.TokenID, err, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	return TokenPair{}, err
}

// Authenticate validates an access token end to end (signature, window,
// token type) and resolves the user it names.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (User, error) {
	if e == nil || e.jwtManager == nil {
		return User{}, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		defer e.observeSince(time.Now())
	}

	result := flows.RunValidate(ctx, accessToken, e.flows.Validate)
	if result.Failure != flows.ValidateFailureNone {
		e.metricInc(MetricValidateFailure)
		e.tokenRejected(result.Err)
		if !result.Expected() {
			e.logger.Warn("access token user lookup failed", zap.Error(result.Err))
		}
		return User{}, result.Err
	}

	e.metricInc(MetricValidateSuccess)
	return userFromRecord(result.User), nil
}

// ParseToken checks structure and signature only. The caller decides what
// to do with the validity window.
func (e *Engine) ParseToken(token string) (Claims, error) {
	if e == nil || e.jwtManager == nil {
		return Claims{}, ErrEngineNotReady
	}
	return e.jwtManager.Parse(token)
}

func userFromRecord(r flows.UserRecord) User {
	return User{ID: r.ID, Email: r.Email, Name: r.Name, PasswordHash: r.PasswordHash}
}

func recordFromUser(u User) flows.UserRecord {
	return flows.UserRecord{ID: u.ID, Email: u.Email, Name: u.Name, PasswordHash: u.PasswordHash}
}

// userLookup adapts a UserProvider to the flow lookup contract. Provider
// errors that do not wrap ErrUserNotFound are passed through as backend
// failures.
func userLookup(up UserProvider) flows.UserLookup {
	return flows.UserLookup{
		ByID: func(ctx context.Context, id string) (flows.UserRecord, error) {
			u, err := up.GetUserByID(ctx, id)
			if err != nil {
				return flows.UserRecord{}, err
			}
			return recordFromUser(u), nil
		},
		ByEmail: func(ctx context.Context, email string) (flows.UserRecord, error) {
			u, err := up.GetUserByEmail(ctx, email)
			if err != nil {
				return flows.UserRecord{}, err
			}
			return recordFromUser(u), nil
		},
		NotFound: ErrUserNotFound,
	}
}

func (e *Engine) buildFlowDeps() {
	users := userLookup(e.userProvider)
	issue := e.issuePair

	e.flows.Issue = flows.IssueDeps{
		Now:   e.now,
		Users: users,
		Issue: issue,
	}

	e.flows.Login = flows.LoginDeps{
		Now:                 e.now,
		ClientIPFromContext: clientIPFromContext,
		RateLimited:         rate.ErrRateLimited,
		Users:               users,
		VerifyPassword:      e.passwordHash.Verify,
		MalformedHash:       password.ErrMalformedHash,
		Issue:               issue,
		InvalidCredentials:  ErrInvalidCredentials,
		Warn:                e.logger.Sugar().Warnw,
	}
	if e.rateLimiter != nil {
		e.flows.Login.CheckLoginRate = e.rateLimiter.CheckLogin
		e.flows.Login.IncrementLoginRate = e.rateLimiter.IncrementLogin
		e.flows.Login.ResetLoginRate = e.rateLimiter.ResetLogin
	}

	e.flows.Refresh = flows.RefreshDeps{
		Now:         e.now,
		ParseToken:  e.jwtManager.Parse,
		RateLimited: rate.ErrRateLimited,
		Users:       users,
		Issue:       issue,
	}
	if e.rateLimiter != nil && e.config.Security.EnableRefreshThrottle {
		e.flows.Refresh.RateLimiter = e.rateLimiter
	}

	e.flows.Validate = flows.ValidateDeps{
		Now:        e.now,
		ParseToken: e.jwtManager.Parse,
		Users:      users,
	}
}
