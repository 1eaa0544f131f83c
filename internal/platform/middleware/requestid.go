package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestIDLength caps reused inbound IDs; longer values are replaced
// rather than logged.
const maxRequestIDLength = 128

// RequestID returns middleware that assigns each request an identifier,
// stored under chi's request ID key and echoed in the X-Request-Id response
// header. A valid inbound X-Request-Id is reused so callers can correlate
// across hops; anything empty, oversized, or outside printable ASCII is
// replaced with a fresh UUIDv4.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(middleware.RequestIDHeader)
			if !isValidRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(middleware.RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// isValidRequestID reports whether an inbound ID is safe to log verbatim:
// 1 to 128 bytes, all printable ASCII (0x20 through 0x7E). Control bytes
// and high bytes reject the ID since they would corrupt log lines.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
