package telegram

import (
	"github.com/janisto/vercel-playground/internal/platform/timeutil"
)

// EndpointsData lists the routes exposed by the webhook API.
type EndpointsData struct {
	Webhook string `json:"webhook" doc:"Update delivery endpoint"    example:"POST /api/telegram/webhook"`
	Setup   string `json:"setup"   doc:"Webhook management endpoint" example:"GET /api/telegram/setup?action=set|delete|info"`
	Health  string `json:"health"  doc:"Health check endpoint"       example:"GET /api/telegram/health"`
}

// RootData describes the webhook API surface.
type RootData struct {
	Message   string        `json:"message"   doc:"API name"          example:"Telegram Bot Webhook API"`
	Status    string        `json:"status"    doc:"API status"        example:"active"`
	Endpoints EndpointsData `json:"endpoints" doc:"Available routes"`
}

// AckData acknowledges a processed update.
type AckData struct {
	Status string `json:"status" doc:"Processing acknowledgement" example:"ok"`
}

// HealthData is the webhook health payload.
type HealthData struct {
	Status  string `json:"status"  doc:"Service health state" example:"healthy"`
	Service string `json:"service" doc:"Service identifier"   example:"telegram-bot-webhook"`
}

// WebhookData mirrors Telegram's webhook registration state.
type WebhookData struct {
	URL                  string         `json:"url"                        doc:"Registered webhook URL"        example:"https://bot.example.com/api/telegram/webhook"`
	HasCustomCertificate bool           `json:"hasCustomCertificate"       doc:"Custom certificate uploaded"   example:"false"`
	PendingUpdateCount   int            `json:"pendingUpdateCount"         doc:"Updates awaiting delivery"     example:"0"`
	LastErrorAt          *timeutil.Time `json:"lastErrorAt,omitempty"      doc:"Most recent delivery error"    example:"2024-01-15T10:30:00.000Z"`
	LastErrorMessage     string         `json:"lastErrorMessage,omitempty" doc:"Most recent error description"`
	MaxConnections       int            `json:"maxConnections,omitempty"   doc:"Maximum webhook connections"   example:"40"`
	AllowedUpdates       []string       `json:"allowedUpdates,omitempty"   doc:"Update kinds delivered"`
}

// SetupData reports the outcome of a webhook management action.
type SetupData struct {
	Action     string       `json:"action"               doc:"Action performed"            example:"set"`
	WebhookURL string       `json:"webhookUrl,omitempty" doc:"URL registered with Telegram" example:"https://bot.example.com/api/telegram/webhook"`
	Result     string       `json:"result,omitempty"     doc:"Action result"                example:"ok"`
	Webhook    *WebhookData `json:"webhook,omitempty"    doc:"Current webhook registration"`
}
