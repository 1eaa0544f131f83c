// Package app assembles the router and API mounts shared by the local server
// and the Vercel serverless entrypoints.
package app

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/vercel-playground/internal/http/index"
	telegramhandler "github.com/janisto/vercel-playground/internal/http/telegram"
	applog "github.com/janisto/vercel-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/vercel-playground/internal/platform/middleware"
	"github.com/janisto/vercel-playground/internal/platform/respond"
	telegramsvc "github.com/janisto/vercel-playground/internal/service/telegram"
)

// NewRouter builds the chi router with the full middleware stack. Handlers
// are mounted separately so each deployment flavor carries only the APIs it
// serves.
func NewRouter() chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security("/docs", "/api/telegram/docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP / X-Forwarded-For, which Vercel's proxy sets.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)
	return router
}

// MountIndex registers the landing API with its docs at /docs.
func MountIndex(r chi.Router, version string) huma.API {
	cfg := newConfig("FastAPI on Vercel", version)
	api := humachi.New(r, cfg)
	documentCBOR(api)
	index.Register(api)
	return api
}

// MountTelegram registers the Telegram webhook API with its docs at
// /api/telegram/docs.
func MountTelegram(r chi.Router, version string, svc telegramsvc.Service, webhookURL string) huma.API {
	cfg := newConfig("Telegram Bot Webhook", version)
	cfg.DocsPath = "/api/telegram/docs"
	cfg.OpenAPIPath = "/api/telegram/openapi"
	cfg.SchemasPath = "/api/telegram/schemas"
	api := humachi.New(r, cfg)
	documentCBOR(api)
	telegramhandler.Register(api, svc, webhookURL)
	return api
}

// newConfig strips the schema link transformer DefaultConfig wires through
// CreateHooks; it would add $schema fields and describedBy Link headers to
// every payload.
func newConfig(title, version string) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.CreateHooks = nil
	return cfg
}

// documentCBOR advertises the CBOR content type for every operation's
// request and response bodies.
func documentCBOR(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}
