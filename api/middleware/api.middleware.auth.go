// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/itsatony/healthhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// APIKeyMiddleware guards routes with a static shared key. Auto Export can
// send custom headers, so both "Authorization: Bearer <key>" and
// "X-API-Key: <key>" are accepted.
type APIKeyMiddleware struct {
	key []byte
}

func NewAPIKeyMiddleware(key string) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: []byte(key)}
}

// Enabled reports whether a key is configured.
func (m *APIKeyMiddleware) Enabled() bool {
	return len(m.key) > 0
}

// Authenticate rejects requests without the configured key. With no key
// configured every request passes.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no API key provided", nil))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), m.key) != 1 {
			nuts.L.Warnf("[Auth] Rejected request to %s from %s: invalid API key", r.URL.Path, r.RemoteAddr)
			handleError(w, errors.NewAuthError("invalid API key", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	bearerToken := r.Header.Get("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.NewInternalError("Internal Server Error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	_ = json.NewEncoder(w).Encode(apiErr)
}
