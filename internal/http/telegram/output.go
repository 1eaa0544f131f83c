package telegram

// RootOutput is the response wrapper for GET /api/telegram.
type RootOutput struct {
	Body RootData
}

// WebhookOutput is the response wrapper for POST /api/telegram/webhook.
type WebhookOutput struct {
	Body AckData
}

// SetupOutput is the response wrapper for GET /api/telegram/setup.
type SetupOutput struct {
	Body SetupData
}

// HealthOutput is the response wrapper for GET /api/telegram/health.
type HealthOutput struct {
	Body HealthData
}
