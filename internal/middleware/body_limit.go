package middleware

import "net/http"

// DefaultMaxBodyBytes bounds JSON request bodies accepted by the mock API.
const DefaultMaxBodyBytes int64 = 1 << 20

// MaxBodySize returns middleware that limits request body size.
// Reading past maxBytes fails, and handlers answer 413.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
