package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// SentMessage is one recorded sendMessage call.
type SentMessage struct {
	ChatID      int64
	Text        string
	HasKeyboard bool
}

// Failure scripts an error envelope for one Bot API method.
type Failure struct {
	Status      int
	Description string
	RetryAfter  int
}

// BotAPI is an in-process Telegram Bot API stand-in. It speaks the
// /bot<token>/<method> envelope for the methods the client uses, keeps the
// registered webhook URL as state, and records calls for assertions.
type BotAPI struct {
	token  string
	server *httptest.Server

	mu            sync.Mutex
	calls         []string
	sent          []SentMessage
	webhookURL    string
	failures      map[string]Failure
	nextMessageID int64
}

// NewBotAPI starts a fake Bot API server for the given token. The server is
// closed when the test finishes.
func NewBotAPI(t *testing.T, token string) *BotAPI {
	t.Helper()
	b := &BotAPI{
		token:    token,
		failures: make(map[string]Failure),
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL clients should use in place of api.telegram.org.
func (b *BotAPI) URL() string {
	return b.server.URL
}

// Calls returns the Bot API method names invoked so far, in order.
func (b *BotAPI) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	calls := make([]string, len(b.calls))
	copy(calls, b.calls)
	return calls
}

// Sent returns the recorded sendMessage calls.
func (b *BotAPI) Sent() []SentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	sent := make([]SentMessage, len(b.sent))
	copy(sent, b.sent)
	return sent
}

// WebhookURL returns the webhook registered via setWebhook, or the empty
// string after deleteWebhook.
func (b *BotAPI) WebhookURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.webhookURL
}

// FailWith makes every subsequent call to method answer with the scripted
// error envelope instead of succeeding.
func (b *BotAPI) FailWith(method string, f Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = f
}

func (b *BotAPI) handle(w http.ResponseWriter, r *http.Request) {
	method, ok := strings.CutPrefix(r.URL.Path, "/bot"+b.token+"/")
	if !ok {
		b.writeError(w, http.StatusUnauthorized, "Unauthorized", 0)
		return
	}

	b.mu.Lock()
	b.calls = append(b.calls, method)
	failure, failed := b.failures[method]
	b.mu.Unlock()
	if failed {
		b.writeError(w, failure.Status, failure.Description, failure.RetryAfter)
		return
	}

	switch method {
	case "sendMessage":
		var req struct {
			ChatID      int64           `json:"chat_id"`
			Text        string          `json:"text"`
			ReplyMarkup json.RawMessage `json:"reply_markup"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.writeError(w, http.StatusBadRequest, "Bad Request: invalid JSON", 0)
			return
		}
		b.mu.Lock()
		b.nextMessageID++
		id := b.nextMessageID
		b.sent = append(b.sent, SentMessage{
			ChatID:      req.ChatID,
			Text:        req.Text,
			HasKeyboard: len(req.ReplyMarkup) > 0,
		})
		b.mu.Unlock()
		b.writeResult(w, map[string]any{
			"message_id": id,
			"chat":       map[string]any{"id": req.ChatID, "type": "private"},
			"date":       1700000000,
			"text":       req.Text,
		})
	case "answerCallbackQuery":
		b.writeResult(w, true)
	case "setWebhook":
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.writeError(w, http.StatusBadRequest, "Bad Request: invalid JSON", 0)
			return
		}
		b.mu.Lock()
		b.webhookURL = req.URL
		b.mu.Unlock()
		b.writeResult(w, true)
	case "deleteWebhook":
		b.mu.Lock()
		b.webhookURL = ""
		b.mu.Unlock()
		b.writeResult(w, true)
	case "getWebhookInfo":
		b.mu.Lock()
		url := b.webhookURL
		b.mu.Unlock()
		info := map[string]any{
			"url":                    url,
			"has_custom_certificate": false,
			"pending_update_count":   0,
		}
		if url != "" {
			info["max_connections"] = 40
			info["allowed_updates"] = []string{"message", "callback_query"}
		}
		b.writeResult(w, info)
	default:
		b.writeError(w, http.StatusNotFound, "Not Found: method not found", 0)
	}
}

func (b *BotAPI) writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"result": result,
	})
}

func (b *BotAPI) writeError(w http.ResponseWriter, status int, description string, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"ok":          false,
		"error_code":  status,
		"description": description,
	}
	if retryAfter > 0 {
		body["parameters"] = map[string]any{"retry_after": retryAfter}
	}
	_ = json.NewEncoder(w).Encode(body)
}
