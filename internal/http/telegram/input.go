package telegram

// SetupInput selects the webhook management action.
type SetupInput struct {
	Action string `query:"action" enum:"set,delete,info" default:"info" doc:"Webhook management action" example:"info"`
}

// WebhookInput carries the raw update payload delivered by Telegram. The
// body is decoded by hand so updates with fields this bot does not model
// still dispatch instead of failing validation.
type WebhookInput struct {
	RawBody []byte
}
