package index

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Register wires the static landing routes into the provided API router.
// The payloads are fixed: handlers consult no request state and never fail,
// so identical requests always produce identical bytes.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Landing payload",
		Description: "Returns a static greeting and the location of the interactive API docs.",
		Tags:        []string{"Index"},
	}, func(_ context.Context, _ *struct{}) (*RootOutput, error) {
		return &RootOutput{Body: RootData{Hello: "world", Docs: "/docs"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-api-root",
		Method:      http.MethodGet,
		Path:        "/api",
		Summary:     "API status payload",
		Description: "Returns a static confirmation that the API is deployed and serving.",
		Tags:        []string{"Index"},
	}, func(_ context.Context, _ *struct{}) (*APIOutput, error) {
		return &APIOutput{Body: APIData{OK: true, Msg: "FastAPI running on Vercel"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-api-health",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health check",
		Description: "Returns a static health payload for uptime probes.",
		Tags:        []string{"Index"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthData{Status: "healthy"}}, nil
	})
}
