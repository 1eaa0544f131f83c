package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/vercel-playground/internal/bot"
	applog "github.com/janisto/vercel-playground/internal/platform/logging"
	"github.com/janisto/vercel-playground/internal/platform/timeutil"
	telegramsvc "github.com/janisto/vercel-playground/internal/service/telegram"
)

const (
	basePath    = "/api/telegram"
	webhookPath = basePath + "/webhook"
)

// Register wires Telegram webhook routes into the provided API router.
// webhookURL is the public base URL updates should be delivered to; it is
// only required for the set action.
func Register(api huma.API, svc telegramsvc.Service, webhookURL string) {
	b := bot.New(svc)

	huma.Register(api, huma.Operation{
		OperationID: "get-telegram-root",
		Method:      http.MethodGet,
		Path:        basePath,
		Summary:     "Webhook API overview",
		Description: "Returns the routes exposed by the Telegram webhook API.",
		Tags:        []string{"Telegram"},
	}, func(_ context.Context, _ *struct{}) (*RootOutput, error) {
		return &RootOutput{Body: RootData{
			Message: "Telegram Bot Webhook API",
			Status:  "active",
			Endpoints: EndpointsData{
				Webhook: "POST /api/telegram/webhook",
				Setup:   "GET /api/telegram/setup?action=set|delete|info",
				Health:  "GET /api/telegram/health",
			},
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "post-telegram-webhook",
		Method:      http.MethodPost,
		Path:        webhookPath,
		Summary:     "Receive a Telegram update",
		Description: "Dispatches an incoming bot update. Always acknowledges well-formed updates so Telegram does not redeliver them.",
		Tags:        []string{"Telegram"},
		RequestBody: &huma.RequestBody{
			Required: true,
			Content: map[string]*huma.MediaType{
				"application/json": {Schema: &huma.Schema{Type: huma.TypeObject}},
			},
		},
	}, func(ctx context.Context, input *WebhookInput) (*WebhookOutput, error) {
		var update telegramsvc.Update
		if err := json.Unmarshal(input.RawBody, &update); err != nil {
			return nil, huma.Error400BadRequest("invalid update payload")
		}

		// Telegram redelivers the whole update on a non-2xx response, so
		// dispatch failures are logged instead of surfaced.
		if err := b.HandleUpdate(ctx, &update); err != nil {
			applog.LogError(ctx, "update dispatch failed", err,
				zap.Int64("updateId", update.UpdateID),
			)
		}
		return &WebhookOutput{Body: AckData{Status: "ok"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-telegram-setup",
		Method:      http.MethodGet,
		Path:        basePath + "/setup",
		Summary:     "Manage the webhook registration",
		Description: "Sets, deletes, or inspects the webhook registration with the Telegram Bot API.",
		Tags:        []string{"Telegram"},
	}, func(ctx context.Context, input *SetupInput) (*SetupOutput, error) {
		switch input.Action {
		case "set":
			if webhookURL == "" {
				return nil, huma.Error400BadRequest("webhook url not configured")
			}
			target := webhookURL + webhookPath
			if err := svc.SetWebhook(ctx, target); err != nil {
				auditWebhook(ctx, "webhook.set", "failure", map[string]any{"url": target})
				return nil, mapServiceError(err)
			}
			auditWebhook(ctx, "webhook.set", "success", map[string]any{"url": target})
			return &SetupOutput{Body: SetupData{Action: "set", WebhookURL: target, Result: "ok"}}, nil

		case "delete":
			if err := svc.DeleteWebhook(ctx); err != nil {
				auditWebhook(ctx, "webhook.delete", "failure", nil)
				return nil, mapServiceError(err)
			}
			auditWebhook(ctx, "webhook.delete", "success", nil)
			return &SetupOutput{Body: SetupData{Action: "delete", Result: "ok"}}, nil

		default:
			info, err := svc.GetWebhookInfo(ctx)
			if err != nil {
				return nil, mapServiceError(err)
			}
			webhook := toHTTPWebhook(info)
			return &SetupOutput{Body: SetupData{Action: "info", Webhook: &webhook}}, nil
		}
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-telegram-health",
		Method:      http.MethodGet,
		Path:        basePath + "/health",
		Summary:     "Webhook health check",
		Description: "Returns a static health payload for the webhook function.",
		Tags:        []string{"Telegram"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		return &HealthOutput{Body: HealthData{Status: "healthy", Service: "telegram-bot-webhook"}}, nil
	})
}

func auditWebhook(ctx context.Context, action, result string, details map[string]any) {
	applog.LogAuditEvent(ctx, applog.AuditEvent{
		Action:   action,
		Resource: "webhook",
		ID:       "telegram",
		Result:   result,
		Details:  details,
	})
}

func mapServiceError(err error) error {
	var upstreamErr *telegramsvc.UpstreamError

	if errors.As(err, &upstreamErr) {
		switch upstreamErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return huma.Error502BadGateway("telegram rejected the bot token")
		case http.StatusTooManyRequests:
			rateLimitErr := huma.Error429TooManyRequests("telegram rate limit exceeded")
			if upstreamErr.RetryAfter > 0 {
				headers := make(http.Header)
				headers.Set("Retry-After", strconv.Itoa(upstreamErr.RetryAfter))
				return huma.ErrorWithHeaders(rateLimitErr, headers)
			}
			return rateLimitErr
		case http.StatusBadRequest:
			detail := "telegram rejected the request"
			if upstreamErr.Description != "" {
				detail = upstreamErr.Description
			}
			return huma.Error400BadRequest(detail)
		default:
			return huma.Error502BadGateway("telegram upstream error")
		}
	}

	switch {
	case errors.Is(err, telegramsvc.ErrUnauthorized), errors.Is(err, telegramsvc.ErrForbidden):
		return huma.Error502BadGateway("telegram rejected the bot token")
	case errors.Is(err, telegramsvc.ErrRateLimited):
		return huma.Error429TooManyRequests("telegram rate limit exceeded")
	case errors.Is(err, telegramsvc.ErrBadRequest):
		return huma.Error400BadRequest("telegram rejected the request")
	default:
		return huma.Error502BadGateway("telegram upstream error")
	}
}

func toHTTPWebhook(info *telegramsvc.WebhookInfo) WebhookData {
	data := WebhookData{
		URL:                  info.URL,
		HasCustomCertificate: info.HasCustomCertificate,
		PendingUpdateCount:   info.PendingUpdateCount,
		LastErrorMessage:     info.LastErrorMessage,
		MaxConnections:       info.MaxConnections,
		AllowedUpdates:       info.AllowedUpdates,
	}
	if info.LastErrorDate != 0 {
		errorAt := timeutil.FromUnix(info.LastErrorDate)
		data.LastErrorAt = &errorAt
	}
	return data
}
