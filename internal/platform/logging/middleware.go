package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger returns middleware that stores a request-scoped logger and a
// correlation ID on the context. Correlation prefers the W3C traceparent
// trace ID, then Vercel's x-vercel-id, then the chi request ID.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			traceparent := r.Header.Get(traceparentHeader)
			vercelID := r.Header.Get(vercelIDHeader)
			reqID := chimiddleware.GetReqID(r.Context())

			ctx := withTraceID(r.Context(), firstNonEmpty(traceID(traceparent), vercelID, reqID))
			ctx = withLogger(ctx, loggerForRequest(Logger(), traceparent, vercelID, reqID))
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// AccessLogger returns middleware that writes one structured summary line per
// request once the handler finishes, including aborted ones.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				LogInfo(r.Context(), "request completed",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
