package goTokenAuth

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goTokenAuth/jwt"
)

// LintSeverity ranks configuration warnings.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("LintSeverity(%d)", int(s))
	}
}

// LintWarning is a configuration that is valid but probably not intended.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

type LintWarnings []LintWarning

func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var out LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError folds every warning at or above min into one error, or returns
// nil when there are none.
func (ws LintWarnings) AsError(min LintSeverity) error {
	hits := ws.BySeverity(min)
	if len(hits) == 0 {
		return nil
	}
	parts := make([]string, 0, len(hits))
	for _, w := range hits {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return fmt.Errorf("config lint: %s", strings.Join(parts, "; "))
}

// Lint reports risky but valid settings. It never fails; pair it with
// AsError to gate startup.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings
	add := func(code string, sev LintSeverity, format string, args ...any) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if c.JWT.RefreshTTL > 0 && c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		add("refresh_not_longer_than_access", LintHigh,
			"RefreshTTL (%s) should exceed AccessTTL (%s)", c.JWT.RefreshTTL, c.JWT.AccessTTL)
	}
	if c.JWT.AccessTTL > 15*time.Minute {
		add("access_ttl_long", LintWarn,
			"AccessTTL %s exceeds 15m; access tokens cannot be revoked", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL > 14*24*time.Hour {
		add("refresh_ttl_long", LintWarn,
			"RefreshTTL %s exceeds 14d; refresh tokens stay redeemable until expiry", c.JWT.RefreshTTL)
	}
	if len(c.JWT.PrivateKey) == 0 && len(c.JWT.PublicKey) > 0 {
		add("verify_only", LintInfo, "no PrivateKey: Issue, Login and Refresh will fail with a signing error")
	}
	if jwt.SigningMethod(c.JWT.SigningMethod) == jwt.MethodRS256 || c.JWT.SigningMethod == "" {
		add("signing_rs256", LintInfo, "RS256 tokens are larger and slower to verify than ed25519")
	}

	if !c.Security.EnableIPThrottle && !c.Security.EnableRefreshThrottle {
		add("rate_limits_disabled", LintHigh, "both IP and refresh throttles are disabled")
	} else if !c.Security.EnableIPThrottle {
		add("ip_throttle_disabled", LintWarn, "login throttling is per email only")
	}
	if c.Security.MaxLoginAttempts > 10 {
		add("login_attempts_high", LintWarn, "MaxLoginAttempts %d allows wide password guessing", c.Security.MaxLoginAttempts)
	}

	if c.Password.Memory > 0 && c.Password.Memory < 64*1024 {
		add("argon2_memory_low", LintWarn, "argon2 memory %d KB is below 64 MB", c.Password.Memory)
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "audit events are not recorded")
	} else if !c.Audit.DropIfFull {
		add("audit_blocking", LintWarn, "a slow audit sink will block login and refresh")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		add("latency_without_metrics", LintInfo, "latency histograms need Metrics.Enabled")
	}
	if !c.Security.ProductionMode {
		add("production_mode_off", LintInfo, "ProductionMode hardening checks are skipped")
	}

	return ws
}
