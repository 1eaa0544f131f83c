package telegram

import (
	"context"
	"errors"
	"fmt"
)

// Service errors
var (
	ErrBadRequest   = errors.New("telegram bad request")
	ErrUnauthorized = errors.New("telegram bot token rejected")
	ErrForbidden    = errors.New("telegram access forbidden")
	ErrNotFound     = errors.New("telegram resource not found")
	ErrRateLimited  = errors.New("telegram rate limit exceeded")
	ErrUpstream     = errors.New("telegram upstream error")
)

// UpstreamError includes Bot API response metadata for error mapping. The
// bot token never appears in its fields or its Error output.
type UpstreamError struct {
	Method      string
	Status      int
	Description string
	RetryAfter  int
	cause       error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "telegram upstream error"
	}
	if e.Description == "" {
		return fmt.Sprintf("telegram %s failed (status=%d)", e.Method, e.Status)
	}
	return fmt.Sprintf("telegram %s failed (status=%d): %s", e.Method, e.Status, e.Description)
}

// Unwrap enables errors.Is/As against sentinel service errors.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Types below follow the Telegram Bot API wire format; updates arriving on
// the webhook decode straight into them.

// User represents a Telegram user or bot.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a conversation the bot participates in.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Message is an incoming or sent chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// CallbackQuery is sent when a user presses an inline keyboard button.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// Update is a single incoming event delivered to the webhook.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// InlineKeyboardButton is one button of an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup attaches an inline keyboard to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// WebhookInfo describes the current webhook registration.
type WebhookInfo struct {
	URL                  string   `json:"url"`
	HasCustomCertificate bool     `json:"has_custom_certificate"`
	PendingUpdateCount   int      `json:"pending_update_count"`
	LastErrorDate        int64    `json:"last_error_date,omitempty"`
	LastErrorMessage     string   `json:"last_error_message,omitempty"`
	MaxConnections       int      `json:"max_connections,omitempty"`
	AllowedUpdates       []string `json:"allowed_updates,omitempty"`
}

// SendOptions collects optional sendMessage parameters.
type SendOptions struct {
	ReplyMarkup *InlineKeyboardMarkup
}

// SendOption configures a single SendMessage call.
type SendOption func(*SendOptions)

// WithReplyMarkup attaches an inline keyboard to the outgoing message.
func WithReplyMarkup(markup *InlineKeyboardMarkup) SendOption {
	return func(o *SendOptions) {
		o.ReplyMarkup = markup
	}
}

func buildSendOptions(opts []SendOption) SendOptions {
	var options SendOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Service defines Telegram Bot API operations.
type Service interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts ...SendOption) (*Message, error)
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error
	SetWebhook(ctx context.Context, url string) error
	DeleteWebhook(ctx context.Context) error
	GetWebhookInfo(ctx context.Context) (*WebhookInfo, error)
}
