package middleware

import (
	"encoding/json"
	"io"
	"net/http"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

type handlerConfig struct {
	logger *zap.Logger
}

// HandlerOption configures [LoginHandler] and [RefreshHandler].
type HandlerOption func(*handlerConfig)

// WithLogger sets the request logger. Requests and successes log at Info,
// rejected credentials and bad bodies at Warn, server faults at Error.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newHandlerConfig(opts []HandlerOption) handlerConfig {
	c := handlerConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c handlerConfig) fail(w http.ResponseWriter, op string, err error) {
	status := StatusCode(err)
	fields := []zap.Field{zap.String("op", op), zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		c.logger.Error("token request failed", fields...)
	} else {
		c.logger.Warn("token request rejected", fields...)
	}
	WriteError(w, err)
}

// LoginHandler accepts {"email", "password"} and answers with a token pair.
func LoginHandler(engine *goTokenAuth.Engine, opts ...HandlerOption) http.Handler {
	cfg := newHandlerConfig(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		cfg.logger.Info("login requested", zap.String("remote", clientIP(r)))

		fields, err := readStringFields(r, "email", "password")
		if err != nil {
			cfg.fail(w, "login", err)
			return
		}

		pair, err := engine.Login(requestContext(r), fields["email"], fields["password"])
		if err != nil {
			cfg.fail(w, "login", err)
			return
		}
		cfg.logger.Info("login succeeded")
		writeJSON(w, http.StatusOK, pair)
	})
}

// RefreshHandler accepts {"refreshToken"} and answers with a fresh pair.
// A missing or non-string token is a 422, not an authentication failure.
func RefreshHandler(engine *goTokenAuth.Engine, opts ...HandlerOption) http.Handler {
	cfg := newHandlerConfig(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		cfg.logger.Info("refresh requested", zap.String("remote", clientIP(r)))

		fields, err := readStringFields(r, "refreshToken")
		if err != nil {
			cfg.fail(w, "refresh", err)
			return
		}

		pair, err := engine.Refresh(requestContext(r), fields["refreshToken"])
		if err != nil {
			cfg.fail(w, "refresh", err)
			return
		}
		cfg.logger.Info("refresh succeeded")
		writeJSON(w, http.StatusOK, pair)
	})
}

func readStringFields(r *http.Request, names ...string) (map[string]string, error) {
	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, ErrInvalidRequest
	}

	out := make(map[string]string, len(names))
	for _, name := range names {
		v, ok := body[name].(string)
		if !ok || v == "" {
			return nil, ErrInvalidRequest
		}
		out[name] = v
	}
	return out, nil
}
