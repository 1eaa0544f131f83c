package middleware

import "net/http"

// Vary returns middleware that adds Accept to the Vary header on all
// responses, per RFC 9110 Section 12.5.5: responses negotiate JSON or CBOR
// on the Accept header. The CORS middleware contributes the Origin entry
// itself.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
