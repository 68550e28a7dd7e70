// Package envconfig builds a goTokenAuth.Config from environment variables.
//
// Keys are read through viper with AutomaticEnv, so with prefix "APP" the
// access TTL comes from APP_JWT_ACCESS_TTL. Without a prefix the bare names
// are used:
//
//	JWT_RSA_BASE64_PUBLIC_KEY   base64 of the PEM public key
//	JWT_RSA_BASE64_PRIVATE_KEY  base64 of the PEM private key (optional)
//	JWT_SIGNING_METHOD          rs256 (default) or ed25519
//	JWT_ACCESS_TTL              Go duration, default 15m
//	JWT_REFRESH_TTL             Go duration, default 168h
//	REDIS_ADDR                  enables login/refresh throttling
//	REDIS_PASSWORD, REDIS_DB
//	AUTH_PRODUCTION_MODE, AUTH_AUDIT_ENABLED, AUTH_METRICS_ENABLED
//
// The key variables may also hold the PEM text directly. With ed25519 the
// base64 value may instead be the raw 32-byte public or 64-byte private key.
package envconfig

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	"github.com/MrEthical07/goTokenAuth/jwt"
)

// ErrInvalidEnv is wrapped by every value error Load reports.
var ErrInvalidEnv = errors.New("invalid environment configuration")

const (
	KeyPublicKey      = "jwt_rsa_base64_public_key"
	KeyPrivateKey     = "jwt_rsa_base64_private_key"
	KeySigningMethod  = "jwt_signing_method"
	KeyAccessTTL      = "jwt_access_ttl"
	KeyRefreshTTL     = "jwt_refresh_ttl"
	KeyRedisAddr      = "redis_addr"
	KeyRedisPassword  = "redis_password"
	KeyRedisDB        = "redis_db"
	KeyProductionMode = "auth_production_mode"
	KeyAuditEnabled   = "auth_audit_enabled"
	KeyMetricsEnabled = "auth_metrics_enabled"
	pemPrefix         = "-----BEGIN"
)

// Env is the loaded configuration plus the Redis connection settings.
type Env struct {
	Config        goTokenAuth.Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads the process environment under prefix.
func Load(prefix string) (*Env, error) {
	v := viper.New()
	if prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper reads the same keys from an existing viper instance, which lets
// callers layer config files or flags under the environment.
func FromViper(v *viper.Viper) (*Env, error) {
	defaults := goTokenAuth.DefaultConfig()
	v.SetDefault(KeySigningMethod, defaults.JWT.SigningMethod)
	v.SetDefault(KeyAccessTTL, defaults.JWT.AccessTTL.String())
	v.SetDefault(KeyRefreshTTL, defaults.JWT.RefreshTTL.String())
	v.SetDefault(KeyRedisDB, 0)

	cfg := defaults
	cfg.JWT.SigningMethod = strings.ToLower(strings.TrimSpace(v.GetString(KeySigningMethod)))

	var rawPub, rawPriv int
	if cfg.JWT.SigningMethod == string(jwt.MethodEd25519) {
		rawPub, rawPriv = ed25519.PublicKeySize, ed25519.PrivateKeySize
	}

	var err error
	if cfg.JWT.PublicKey, err = decodeKey(v.GetString(KeyPublicKey), rawPub); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEnv, KeyPublicKey, err)
	}
	if cfg.JWT.PrivateKey, err = decodeKey(v.GetString(KeyPrivateKey), rawPriv); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEnv, KeyPrivateKey, err)
	}
	if len(cfg.JWT.PublicKey) == 0 && len(cfg.JWT.PrivateKey) == 0 {
		return nil, fmt.Errorf("%w: %s or %s is required", ErrInvalidEnv, KeyPublicKey, KeyPrivateKey)
	}

	if cfg.JWT.AccessTTL, err = duration(v, KeyAccessTTL); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTTL, err = duration(v, KeyRefreshTTL); err != nil {
		return nil, err
	}

	cfg.Security.ProductionMode = v.GetBool(KeyProductionMode)
	cfg.Audit.Enabled = v.GetBool(KeyAuditEnabled)
	cfg.Metrics.Enabled = v.GetBool(KeyMetricsEnabled)

	env := &Env{
		Config:        cfg,
		RedisAddr:     strings.TrimSpace(v.GetString(KeyRedisAddr)),
		RedisPassword: v.GetString(KeyRedisPassword),
		RedisDB:       v.GetInt(KeyRedisDB),
	}
	if err := env.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}
	return env, nil
}

// RedisClient returns a client for RedisAddr, or nil when no address is set.
func (e *Env) RedisClient() redis.UniversalClient {
	if e == nil || e.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     e.RedisAddr,
		Password: e.RedisPassword,
		DB:       e.RedisDB,
	})
}

// decodeKey accepts PEM text, base64 of PEM, or (rawSize > 0) base64 of a
// raw key of exactly rawSize bytes.
func decodeKey(value string, rawSize int) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, pemPrefix) {
		return []byte(value), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, errors.New("not valid base64")
	}
	if rawSize > 0 && len(decoded) == rawSize {
		return decoded, nil
	}
	if !strings.HasPrefix(strings.TrimSpace(string(decoded)), pemPrefix) {
		return nil, errors.New("decoded value is not PEM")
	}
	return decoded, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration", ErrInvalidEnv, key)
	}
	return d, nil
}
