package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/vercel-playground/internal/platform/logging"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	userAgent      = "vercel-playground"
	parseModeHTML  = "HTML"
	redactedToken  = "<redacted>"
)

// webhookAllowedUpdates restricts delivery to the update kinds the bot
// actually dispatches on.
var webhookAllowedUpdates = []string{"message", "callback_query"}

// Client implements Service using the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Telegram Bot API client for the given bot token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bot API request types (snake_case JSON tags matching Telegram's API).

type sendMessageRequest struct {
	ChatID      int64                 `json:"chat_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	AllowedUpdates []string `json:"allowed_updates"`
}

// apiResponse is the envelope every Bot API method responds with.
type apiResponse struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result,omitempty"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

type responseParameters struct {
	RetryAfter      int   `json:"retry_after,omitempty"`
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
}

// invoke POSTs one Bot API method and decodes the envelope. A nil payload
// sends an empty body; a nil result discards the envelope's result field.
func (c *Client) invoke(ctx context.Context, method string, payload, result any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", method, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+c.token+"/"+method, body)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, c.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, c.redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}

	if !envelope.OK {
		return upstreamError(ctx, method, resp.StatusCode, &envelope)
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts ...SendOption) (*Message, error) {
	options := buildSendOptions(opts)
	payload := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   parseModeHTML,
		ReplyMarkup: options.ReplyMarkup,
	}

	var msg Message
	if err := c.invoke(ctx, "sendMessage", payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	payload := answerCallbackQueryRequest{
		CallbackQueryID: callbackQueryID,
		Text:            text,
	}
	return c.invoke(ctx, "answerCallbackQuery", payload, nil)
}

func (c *Client) SetWebhook(ctx context.Context, url string) error {
	payload := setWebhookRequest{
		URL:            url,
		AllowedUpdates: webhookAllowedUpdates,
	}
	return c.invoke(ctx, "setWebhook", payload, nil)
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.invoke(ctx, "deleteWebhook", nil, nil)
}

func (c *Client) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	var info WebhookInfo
	if err := c.invoke(ctx, "getWebhookInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// redact strips the bot token from transport errors, which embed the request
// URL. The resulting error loses its chain on purpose: any wrapped cause
// would still carry the token in its message.
func (c *Client) redact(err error) error {
	if err == nil || c.token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, c.token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, c.token, redactedToken))
}

func upstreamError(ctx context.Context, method string, httpStatus int, envelope *apiResponse) error {
	status := envelope.ErrorCode
	if status == 0 {
		status = httpStatus
	}
	retryAfter := 0
	if envelope.Parameters != nil {
		retryAfter = envelope.Parameters.RetryAfter
	}

	var cause error
	switch status {
	case http.StatusBadRequest:
		cause = ErrBadRequest
	case http.StatusUnauthorized:
		cause = ErrUnauthorized
	case http.StatusForbidden:
		cause = ErrForbidden
	case http.StatusNotFound:
		cause = ErrNotFound
	case http.StatusTooManyRequests:
		cause = ErrRateLimited
	default:
		cause = ErrUpstream
	}

	if errors.Is(cause, ErrRateLimited) {
		applog.LogWarn(ctx, "telegram api rate limit exceeded",
			zap.String("method", method),
			zap.Int("status", status),
			zap.Int("retryAfter", retryAfter),
		)
	}

	return &UpstreamError{
		Method:      method,
		Status:      status,
		Description: envelope.Description,
		RetryAfter:  retryAfter,
		cause:       cause,
	}
}

// Compile-time interface check
var _ Service = (*Client)(nil)
