package app

import (
	"os"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port             string
	TelegramBotToken string
	WebhookURL       string
}

// FromEnv reads configuration from environment variables. PORT defaults to
// 8080; the Telegram settings stay empty unless configured, which leaves the
// webhook routes unmounted.
func FromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return Config{
		Port:             port,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
	}
}

// ResolveVersion picks the version string advertised by the APIs: the Vercel
// deployment commit when present, then the build-time override, then "dev".
func ResolveVersion(buildVersion string) string {
	if sha := os.Getenv("VERCEL_GIT_COMMIT_SHA"); sha != "" {
		if len(sha) > 7 {
			sha = sha[:7]
		}
		return sha
	}
	if buildVersion != "" {
		return buildVersion
	}
	return "dev"
}
