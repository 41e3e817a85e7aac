package middleware

import (
	"crypto/subtle"
	"net/http"

	"vaccine-reminder-backend/pkg/response"
)

// AdminKeyMiddleware guards the ops endpoints with a static API key passed
// in the X-Admin-Key header. Comparison is constant time.
type AdminKeyMiddleware struct {
	apiKey string
}

func NewAdminKeyMiddleware(apiKey string) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{apiKey: apiKey}
}

func (m *AdminKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" {
			response.Unauthorized(w, "Admin API key is not configured")
			return
		}

		key := r.Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			response.Unauthorized(w, "Invalid admin API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
