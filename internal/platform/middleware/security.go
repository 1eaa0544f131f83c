package middleware

import (
	"net/http"
	"strings"
)

// apiHeaders are the security headers for JSON API responses, following the
// OWASP REST Security Cheat Sheet.
var apiHeaders = map[string]string{
	"Cache-Control":                "no-store",
	"Content-Security-Policy":      "frame-ancestors 'none'",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-origin",
	"Permissions-Policy":           "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()",
	"Referrer-Policy":              "strict-origin-when-cross-origin",
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
}

// Security sets the API security headers on every response whose path does
// not start with one of skipPaths. The docs pages are the usual exemption:
// they load external scripts these headers forbid.
func Security(skipPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			h := w.Header()
			for name, value := range apiHeaders {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
