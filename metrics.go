package goTokenAuth

import (
	internalmetrics "github.com/MrEthical07/goTokenAuth/internal/metrics"
)

// MetricID identifies one engine counter.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess          = internalmetrics.MetricLoginSuccess
	MetricLoginFailure          = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited      = internalmetrics.MetricLoginRateLimited
	MetricIssueSuccess          = internalmetrics.MetricIssueSuccess
	MetricIssueFailure          = internalmetrics.MetricIssueFailure
	MetricRefreshSuccess        = internalmetrics.MetricRefreshSuccess
	MetricRefreshFailure        = internalmetrics.MetricRefreshFailure
	MetricRefreshRateLimited    = internalmetrics.MetricRefreshRateLimited
	MetricRefreshUserNotFound   = internalmetrics.MetricRefreshUserNotFound
	MetricValidateSuccess       = internalmetrics.MetricValidateSuccess
	MetricValidateFailure       = internalmetrics.MetricValidateFailure
	MetricTokenMalformed        = internalmetrics.MetricTokenMalformed
	MetricTokenSignatureInvalid = internalmetrics.MetricTokenSignatureInvalid
	MetricTokenExpired          = internalmetrics.MetricTokenExpired
	MetricTokenNotYetValid      = internalmetrics.MetricTokenNotYetValid
	MetricTokenTypeMismatch     = internalmetrics.MetricTokenTypeMismatch
	MetricRateLimitHit          = internalmetrics.MetricRateLimitHit
	MetricValidateLatency       = internalmetrics.MetricValidateLatency
)

type Metrics = internalmetrics.Metrics

type MetricsSnapshot = internalmetrics.Snapshot

func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
