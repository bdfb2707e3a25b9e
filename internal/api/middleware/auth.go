package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
)

// APIKeyHeader is the request header carrying the client's API key.
const APIKeyHeader = "X-API-Key"

// AuthMiddleware authenticates requests against a single shared API key.
type AuthMiddleware struct {
	apiKey []byte
}

// NewAuthMiddleware creates a new AuthMiddleware checking against the
// given key.
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey: []byte(apiKey),
	}
}

// Authenticate rejects requests whose X-API-Key header does not match the
// configured key. The comparison is constant-time so response timing
// reveals nothing about the key.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), m.apiKey) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
