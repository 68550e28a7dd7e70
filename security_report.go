package goTokenAuth

import "time"

// SecurityReport summarizes the effective security posture of an Engine.
// It never includes key material.
type SecurityReport struct {
	ProductionMode        bool
	SigningAlgorithm      string
	CanIssue              bool
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	Argon2                PasswordConfigReport
	LoginThrottleActive   bool
	IPThrottleActive      bool
	RefreshThrottleActive bool
	AuditEnabled          bool
	MetricsEnabled        bool
}

type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil || e.jwtManager == nil {
		return SecurityReport{}
	}

	throttling := e.rateLimiter != nil

	return SecurityReport{
		ProductionMode:   e.config.Security.ProductionMode,
		SigningAlgorithm: e.jwtManager.Signer().Alg(),
		CanIssue:         e.jwtManager.Signer().CanSign(),
		AccessTTL:        e.config.JWT.AccessTTL,
		RefreshTTL:       e.config.JWT.RefreshTTL,
		Argon2: PasswordConfigReport{
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
			SaltLength:  e.config.Password.SaltLength,
			KeyLength:   e.config.Password.KeyLength,
		},
		LoginThrottleActive:   throttling,
		IPThrottleActive:      throttling && e.config.Security.EnableIPThrottle,
		RefreshThrottleActive: throttling && e.config.Security.EnableRefreshThrottle,
		AuditEnabled:          e.audit != nil,
		MetricsEnabled:        e.metrics.Enabled(),
	}
}
