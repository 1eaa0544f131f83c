package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/janisto/vercel-playground/internal/app"
	applog "github.com/janisto/vercel-playground/internal/platform/logging"
	telegramsvc "github.com/janisto/vercel-playground/internal/service/telegram"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

// newServer builds the HTTP server with timeouts sized for short JSON
// responses; nothing served here streams or uploads.
func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg := app.FromEnv()
	version := app.ResolveVersion(Version)

	router := app.NewRouter()
	app.MountIndex(router, version)

	if cfg.TelegramBotToken != "" {
		svc := telegramsvc.New(cfg.TelegramBotToken)
		app.MountTelegram(router, version, svc, cfg.WebhookURL)
		applog.LogInfo(context.Background(), "telegram webhook mounted")
	} else {
		applog.LogInfo(context.Background(), "telegram webhook disabled, TELEGRAM_BOT_TOKEN not set")
	}

	srv := newServer(":"+cfg.Port, router)

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}
