package handler

import (
	"net/http"
	"sync"

	"github.com/janisto/vercel-playground/internal/app"
	"github.com/janisto/vercel-playground/internal/platform/respond"
	telegramsvc "github.com/janisto/vercel-playground/internal/service/telegram"
)

var (
	telegramOnce   sync.Once
	telegramRouter http.Handler
)

// TelegramWebhook serves the Telegram bot mount under /api/telegram. When
// TELEGRAM_BOT_TOKEN is unset every request is answered with a 503 problem
// response.
func TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	telegramOnce.Do(func() {
		telegramRouter = newTelegramHandler()
	})
	telegramRouter.ServeHTTP(w, r)
}

func newTelegramHandler() http.Handler {
	cfg := app.FromEnv()
	if cfg.TelegramBotToken == "" {
		return respond.UnavailableHandler("telegram bot token not configured")
	}
	router := app.NewRouter()
	app.MountTelegram(router, app.ResolveVersion(""), telegramsvc.New(cfg.TelegramBotToken), cfg.WebhookURL)
	return router
}
