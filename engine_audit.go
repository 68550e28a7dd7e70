package goTokenAuth

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventLoginRateLimited   = "login_rate_limited"
	auditEventTokenIssued        = "token_issued"
	auditEventRefreshSuccess     = "refresh_success"
	auditEventRefreshInvalid     = "refresh_invalid"
	auditEventRefreshRateLimited = "refresh_rate_limited"
	auditEventRateLimitTriggered = "rate_limit_triggered"
)

// AuditErrorCode is the stable error label written into audit events.
type AuditErrorCode string

const (
	auditErrMalformedToken     AuditErrorCode = "malformed_token"
	auditErrInvalidSignature   AuditErrorCode = "invalid_signature"
	auditErrTokenExpired       AuditErrorCode = "token_expired"
	auditErrTokenNotYetValid   AuditErrorCode = "token_not_yet_valid"
	auditErrWrongTokenType     AuditErrorCode = "wrong_token_type"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrUserNotFound       AuditErrorCode = "user_not_found"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrSigningFailure     AuditErrorCode = "signing_failure"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	tokenID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		UserID:    userID,
		TokenID:   tokenID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitRateLimit(ctx context.Context, scope string, userID string) {
	e.metricInc(MetricRateLimitHit)
	e.emitAudit(ctx, auditEventRateLimitTriggered, false, userID, "", nil, func() map[string]string {
		return map[string]string{"scope": scope}
	})
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, jwt.ErrFailedParsing):
		return auditErrMalformedToken
	case errors.Is(err, jwt.ErrInvalidSignature),
		errors.Is(err, jwt.ErrAlgorithmMismatch):
		return auditErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return auditErrTokenNotYetValid
	case errors.Is(err, jwt.ErrWrongTokenType):
		return auditErrWrongTokenType
	case errors.Is(err, jwt.ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrLoginRateLimited),
		errors.Is(err, ErrRefreshRateLimited):
		return auditErrRateLimited
	case errors.Is(err, jwt.ErrSigningFailure):
		return auditErrSigningFailure
	case errors.Is(err, ErrRateLimiterUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

// tokenFailureMetric picks the per-cause counter for a rejected token.
func tokenFailureMetric(err error) (MetricID, bool) {
	switch {
	case errors.Is(err, jwt.ErrFailedParsing):
		return MetricTokenMalformed, true
	case errors.Is(err, jwt.ErrInvalidSignature),
		errors.Is(err, jwt.ErrAlgorithmMismatch):
		return MetricTokenSignatureInvalid, true
	case errors.Is(err, jwt.ErrTokenExpired):
		return MetricTokenExpired, true
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return MetricTokenNotYetValid, true
	case errors.Is(err, jwt.ErrWrongTokenType):
		return MetricTokenTypeMismatch, true
	default:
		return 0, false
	}
}

func (e *Engine) observeSince(start time.Time) {
	e.metrics.Observe(MetricValidateLatency, time.Since(start))
}
