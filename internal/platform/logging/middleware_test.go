package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap/zapcore"
)

func TestAccessLoggerEmitsSummaryLine(t *testing.T) {
	ctx, recorded := observedContext(zapcore.InfoLevel)

	h := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/tea", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "request completed" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}

	fields := fieldMap(entries[0])
	if f, ok := fields["method"]; !ok || f.String != http.MethodGet {
		t.Errorf("method field = %+v, want GET", f)
	}
	if f, ok := fields["path"]; !ok || f.String != "/tea" {
		t.Errorf("path field = %+v, want /tea", f)
	}
	if f, ok := fields["status"]; !ok || f.Integer != http.StatusTeapot {
		t.Errorf("status field = %+v, want 418", f)
	}
	if f, ok := fields["bytes"]; !ok || f.Integer != int64(len("short and stout")) {
		t.Errorf("bytes field = %+v, want %d", f, len("short and stout"))
	}
	if _, ok := fields["duration"]; !ok {
		t.Error("expected duration field")
	}
}

func TestRequestLoggerStoresLogger(t *testing.T) {
	h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Error("expected request-scoped logger in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequestLoggerCorrelationPrecedence(t *testing.T) {
	const (
		traceparent = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"
		vercelID    = "fra1::abc123-1700000000000-deadbeef0001"
	)

	tests := []struct {
		name     string
		headers  map[string]string
		chiReqID string
		want     string
		wantNone bool
	}{
		{
			name:     "traceparent wins",
			headers:  map[string]string{"traceparent": traceparent, "x-vercel-id": vercelID},
			chiReqID: "req-1",
			want:     "3d23d071b5bfd6579171efce907685cb",
		},
		{
			name:     "vercel id when traceparent is absent",
			headers:  map[string]string{"x-vercel-id": vercelID},
			chiReqID: "req-1",
			want:     vercelID,
		},
		{
			name:    "malformed traceparent falls through",
			headers: map[string]string{"traceparent": "not-a-trace", "x-vercel-id": vercelID},
			want:    vercelID,
		},
		{
			name:     "chi request id as last resort",
			chiReqID: "req-42",
			want:     "req-42",
		},
		{
			name:     "nothing to correlate",
			wantNone: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *string
			h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = TraceIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for name, value := range tc.headers {
				req.Header.Set(name, value)
			}
			if tc.chiReqID != "" {
				ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, tc.chiReqID)
				req = req.WithContext(ctx)
			}

			h.ServeHTTP(httptest.NewRecorder(), req)

			if tc.wantNone {
				if got != nil {
					t.Fatalf("expected no correlation ID, got %q", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected correlation ID in context")
			}
			if *got != tc.want {
				t.Fatalf("correlation ID = %q, want %q", *got, tc.want)
			}
		})
	}
}
