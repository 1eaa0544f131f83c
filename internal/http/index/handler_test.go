package index

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	applog "github.com/janisto/vercel-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/vercel-playground/internal/platform/middleware"
	"github.com/janisto/vercel-playground/internal/platform/respond"
)

func newTestRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	cfg := huma.DefaultConfig("IndexTest", "test")
	// DefaultConfig installs a schema link transformer through CreateHooks.
	// Dropping the hooks keeps $schema fields and describedBy Link headers
	// out of the static payloads.
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)
	Register(api)
	return router
}

func get(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// body returns the response body with the trailing newline the JSON encoder
// appends stripped off, so tests can compare against compact JSON.
func body(resp *httptest.ResponseRecorder) string {
	return strings.TrimSuffix(resp.Body.String(), "\n")
}

func TestGetRoot(t *testing.T) {
	router := newTestRouter()

	resp := get(t, router, "/")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected application/json, got %s", ct)
	}
	if got := body(resp); got != `{"hello":"world","docs":"/docs"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestGetAPIRoot(t *testing.T) {
	router := newTestRouter()

	resp := get(t, router, "/api")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected application/json, got %s", ct)
	}
	if got := body(resp); got != `{"ok":true,"msg":"FastAPI running on Vercel"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestGetAPIHealth(t *testing.T) {
	router := newTestRouter()

	resp := get(t, router, "/api/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected application/json, got %s", ct)
	}
	if got := body(resp); got != `{"status":"healthy"}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestResponsesCarryNoSchemaField(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/", "/api", "/api/health"} {
		resp := get(t, router, path)

		var payload map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("json unmarshal %s: %v", path, err)
		}
		if _, ok := payload["$schema"]; ok {
			t.Errorf("expected no $schema field on %s, got %v", path, payload["$schema"])
		}
		if link := resp.Header().Get("Link"); link != "" {
			t.Errorf("expected no Link header on %s, got %s", path, link)
		}
	}
}

func TestRepeatedRequestsReturnIdenticalBytes(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/", "/api", "/api/health"} {
		first := get(t, router, path)
		second := get(t, router, path)
		if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
			t.Errorf("expected identical bytes for %s across requests", path)
		}
	}
}

func TestQueryStringIgnored(t *testing.T) {
	router := newTestRouter()

	plain := get(t, router, "/api")
	withQuery := get(t, router, "/api?x=1&y=2")
	if withQuery.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", withQuery.Code)
	}
	if !bytes.Equal(plain.Body.Bytes(), withQuery.Body.Bytes()) {
		t.Errorf("expected query string to be ignored, got %s", withQuery.Body.String())
	}
}
