package internaldefs

import (
	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	internalmetrics "github.com/MrEthical07/goTokenAuth/internal/metrics"
)

// BucketCount is the number of latency buckets, the last one unbounded.
const BucketCount = internalmetrics.HistBucketCount

// Buckets holds one count per latency bucket.
type Buckets = [BucketCount]uint64

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   goTokenAuth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   goTokenAuth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter fed from Engine.AuditDropped.
const (
	AuditDroppedName = "gotokenauth_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// CounterDefs lists every exported counter in a fixed order.
var CounterDefs = []CounterDef{
	{ID: goTokenAuth.MetricLoginSuccess, Name: "gotokenauth_login_success_total", Help: "Successful login attempts."},
	{ID: goTokenAuth.MetricLoginFailure, Name: "gotokenauth_login_failure_total", Help: "Failed login attempts."},
	{ID: goTokenAuth.MetricLoginRateLimited, Name: "gotokenauth_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: goTokenAuth.MetricIssueSuccess, Name: "gotokenauth_issue_success_total", Help: "Token pairs issued."},
	{ID: goTokenAuth.MetricIssueFailure, Name: "gotokenauth_issue_failure_total", Help: "Token pair issuance failures."},
	{ID: goTokenAuth.MetricRefreshSuccess, Name: "gotokenauth_refresh_success_total", Help: "Successful refresh operations."},
	{ID: goTokenAuth.MetricRefreshFailure, Name: "gotokenauth_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: goTokenAuth.MetricRefreshRateLimited, Name: "gotokenauth_refresh_rate_limited_total", Help: "Rate-limited refresh attempts."},
	{ID: goTokenAuth.MetricRefreshUserNotFound, Name: "gotokenauth_refresh_user_not_found_total", Help: "Refresh attempts for users that no longer exist."},
	{ID: goTokenAuth.MetricValidateSuccess, Name: "gotokenauth_validate_success_total", Help: "Access tokens accepted."},
	{ID: goTokenAuth.MetricValidateFailure, Name: "gotokenauth_validate_failure_total", Help: "Access tokens rejected."},
	{ID: goTokenAuth.MetricTokenMalformed, Name: "gotokenauth_token_malformed_total", Help: "Tokens that failed to parse."},
	{ID: goTokenAuth.MetricTokenSignatureInvalid, Name: "gotokenauth_token_signature_invalid_total", Help: "Tokens with a bad signature or algorithm."},
	{ID: goTokenAuth.MetricTokenExpired, Name: "gotokenauth_token_expired_total", Help: "Tokens presented after expiry."},
	{ID: goTokenAuth.MetricTokenNotYetValid, Name: "gotokenauth_token_not_yet_valid_total", Help: "Tokens presented before not-before."},
	{ID: goTokenAuth.MetricTokenTypeMismatch, Name: "gotokenauth_token_type_mismatch_total", Help: "Access and refresh tokens used in the wrong place."},
	{ID: goTokenAuth.MetricRateLimitHit, Name: "gotokenauth_rate_limit_hit_total", Help: "Rate-limit checks that denied requests."},
}

// HistogramDefs lists the exported histograms.
var HistogramDefs = []HistogramDef{
	{ID: goTokenAuth.MetricValidateLatency, Name: "gotokenauth_validate_latency_seconds", Help: "Access token authentication latency."},
}

// HistogramBounds are the Prometheus le labels, matching the engine's
// bucket bounds.
var HistogramBounds = [BucketCount]string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is the instrument-name form of HistogramBounds.
var HistogramBoundSuffix = [BucketCount]string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing slots.
func NormalizeBuckets(raw []uint64) Buckets {
	var out Buckets
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw Buckets) Buckets {
	var out Buckets
	var running uint64
	for i := range raw {
		running += raw[i]
		out[i] = running
	}
	return out
}
