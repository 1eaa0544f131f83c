package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/vercel-playground/internal/app"
	telegramsvc "github.com/janisto/vercel-playground/internal/service/telegram"
)

func testServer() http.Handler {
	router := app.NewRouter()
	api := app.MountIndex(router, "test")
	app.MountTelegram(router, "test", telegramsvc.NewMock(), "https://bot.example.com")
	huma.Get(api, "/panic", func(_ context.Context, _ *struct{}) (*struct{}, error) {
		panic("boom")
	})
	return router
}

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) huma.ErrorModel {
	t.Helper()
	var problem huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("problem body is not JSON: %v\n%s", err, resp.Body.String())
	}
	return problem
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "health-check-1")
	resp := httptest.NewRecorder()
	srv.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := strings.TrimSuffix(resp.Body.String(), "\n"); got != `{"status":"healthy"}` {
		t.Fatalf("unexpected body: %s", got)
	}
	if got := resp.Header().Get(chimiddleware.RequestIDHeader); got != "health-check-1" {
		t.Errorf("expected inbound request ID echoed back, got %q", got)
	}
}

func TestProblemResponsesEndToEnd(t *testing.T) {
	srv := testServer()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantDetail string
		wantAllow  string
	}{
		{
			name:       "unknown path",
			method:     http.MethodGet,
			path:       "/missing",
			wantStatus: http.StatusNotFound,
			wantDetail: "resource not found",
		},
		{
			name:       "wrong method",
			method:     http.MethodPost,
			path:       "/api/health",
			wantStatus: http.StatusMethodNotAllowed,
			wantDetail: "method POST not allowed",
			wantAllow:  "GET",
		},
		{
			name:       "handler panic",
			method:     http.MethodGet,
			path:       "/panic",
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp := httptest.NewRecorder()
			srv.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.Code)
			}
			if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("expected application/problem+json, got %q", ct)
			}
			if tc.wantAllow != "" {
				if allow := resp.Header().Get("Allow"); !strings.Contains(allow, tc.wantAllow) {
					t.Errorf("expected Allow to list %s, got %q", tc.wantAllow, allow)
				}
			}

			problem := decodeProblem(t, resp)
			if problem.Status != tc.wantStatus {
				t.Errorf("unexpected problem status: %d", problem.Status)
			}
			if problem.Title != http.StatusText(tc.wantStatus) {
				t.Errorf("unexpected problem title: %q", problem.Title)
			}
			if problem.Detail != tc.wantDetail {
				t.Errorf("unexpected problem detail: %q", problem.Detail)
			}
		})
	}
}

func TestHealthContentNegotiation(t *testing.T) {
	srv := testServer()

	tests := []struct {
		name   string
		accept string
		wantCT string
	}{
		{name: "no accept header", accept: "", wantCT: "application/json"},
		{name: "full wildcard", accept: "*/*", wantCT: "application/json"},
		{name: "application wildcard", accept: "application/*", wantCT: "application/json"},
		// Huma falls back to JSON for unsatisfiable Accept values instead of
		// answering 406, as RFC 9110 section 12.4.1 permits.
		{name: "unsupported type", accept: "text/plain", wantCT: "application/json"},
		{name: "cbor", accept: "application/cbor", wantCT: "application/cbor"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			resp := httptest.NewRecorder()
			srv.ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
			if ct := resp.Header().Get("Content-Type"); ct != tc.wantCT {
				t.Fatalf("expected %s, got %q", tc.wantCT, ct)
			}
		})
	}
}

func TestListenFailsOnBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	srv := newServer(ln.Addr().String(), testServer())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected bind failure, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for bind failure")
	}
}

func TestGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := newServer(ln.Addr().String(), testServer())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	if err != nil {
		t.Fatalf("request before shutdown: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 before shutdown, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed after shutdown, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Serve to return")
	}
}

func TestServerTimeouts(t *testing.T) {
	srv := newServer(":8080", testServer())

	if srv.Addr != ":8080" {
		t.Errorf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected ReadTimeout: %v", srv.ReadTimeout)
	}
	if srv.ReadHeaderTimeout != 2*time.Second {
		t.Errorf("unexpected ReadHeaderTimeout: %v", srv.ReadHeaderTimeout)
	}
	if srv.WriteTimeout != 10*time.Second {
		t.Errorf("unexpected WriteTimeout: %v", srv.WriteTimeout)
	}
	if srv.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected IdleTimeout: %v", srv.IdleTimeout)
	}
	if srv.MaxHeaderBytes != 64<<10 {
		t.Errorf("unexpected MaxHeaderBytes: %d", srv.MaxHeaderBytes)
	}
}

func TestVersionDefault(t *testing.T) {
	if Version != "dev" {
		t.Errorf("expected default Version dev, got %q", Version)
	}
}
