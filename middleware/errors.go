package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// ErrInvalidRequest marks a request body the handlers could not use.
var ErrInvalidRequest = errors.New("invalid request body")

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusCode maps an engine error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case goTokenAuth.IsRateLimited(err):
		return http.StatusTooManyRequests
	case goTokenAuth.IsAuthFailure(err):
		return http.StatusUnauthorized
	case errors.Is(err, goTokenAuth.ErrRateLimiterUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return "invalid_request"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal_error"
	}
}

// Classify returns the status and client-safe body for err. Internal error
// text never reaches the client.
func Classify(err error) (int, ErrorResponse) {
	status := StatusCode(err)
	return status, ErrorResponse{Error: errorCode(status)}
}

// BearerChallenge is the WWW-Authenticate value sent with 401 responses.
const BearerChallenge = `Bearer realm="api"`

// WriteError writes the JSON error body for err.
func WriteError(w http.ResponseWriter, err error) {
	status, body := Classify(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", BearerChallenge)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
