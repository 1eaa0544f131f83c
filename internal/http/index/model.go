package index

// RootData is the landing payload served at the root path.
type RootData struct {
	Hello string `json:"hello" doc:"Static greeting"                  example:"world"`
	Docs  string `json:"docs"  doc:"Path to the interactive API docs" example:"/docs"`
}

// APIData reports that the API surface is deployed and serving.
type APIData struct {
	OK  bool   `json:"ok"  doc:"Always true when the API is serving" example:"true"`
	Msg string `json:"msg" doc:"Deployment banner"                   example:"FastAPI running on Vercel"`
}

// HealthData is the payload for uptime probes.
type HealthData struct {
	Status string `json:"status" doc:"Service health state" example:"healthy"`
}
