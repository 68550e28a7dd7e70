package goTokenAuth

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goTokenAuth/internal/audit"
	"github.com/MrEthical07/goTokenAuth/jwt"
	"go.uber.org/zap"
)

// User is the resolved user entity exposed to request handlers.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string `json:"-"`
}

// UserProvider resolves users. Implementations return an error wrapping
// [ErrUserNotFound] for unknown users; any other error is treated as a
// backend failure.
type UserProvider interface {
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type (
	TokenPair              = jwt.TokenPair
	ClaimsUser             = jwt.ClaimsUser
	RefreshTokenClaimsUser = jwt.RefreshTokenClaimsUser
	Claims                 = jwt.Claims
)

type AuditEvent = internalaudit.Event

type AuditSink = internalaudit.Sink

type NoOpSink = internalaudit.NoOpSink

type ChannelSink = internalaudit.ChannelSink

type JSONWriterSink = internalaudit.JSONWriterSink

type ZapSink = internalaudit.ZapSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return internalaudit.NewZapSink(logger)
}
