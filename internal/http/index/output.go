package index

// RootOutput is the response wrapper for GET /.
type RootOutput struct {
	Body RootData
}

// APIOutput is the response wrapper for GET /api.
type APIOutput struct {
	Body APIData
}

// HealthOutput is the response wrapper for GET /api/health.
type HealthOutput struct {
	Body HealthData
}
