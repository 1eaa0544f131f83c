package telegram

import (
	"context"
)

// SentMessage records one SendMessage call made against the mock.
type SentMessage struct {
	ChatID  int64
	Text    string
	Options SendOptions
}

// AnsweredCallback records one AnswerCallbackQuery call made against the mock.
type AnsweredCallback struct {
	CallbackQueryID string
	Text            string
}

// Mock implements Service for unit tests. It records every call and returns
// scripted results; setting one of the *Err fields makes the matching method
// fail.
type Mock struct {
	Sent        []SentMessage
	Answered    []AnsweredCallback
	WebhookURLs []string
	Deletes     int
	Info        *WebhookInfo

	SendErr   error
	AnswerErr error
	SetErr    error
	DeleteErr error
	InfoErr   error

	nextMessageID int64
}

// NewMock creates a mock with a registered demo webhook.
func NewMock() *Mock {
	return &Mock{
		Info: &WebhookInfo{
			URL:                "https://bot.example.com/api/telegram/webhook",
			PendingUpdateCount: 0,
			MaxConnections:     40,
			AllowedUpdates:     []string{"message", "callback_query"},
		},
	}
}

func (m *Mock) SendMessage(_ context.Context, chatID int64, text string, opts ...SendOption) (*Message, error) {
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.Sent = append(m.Sent, SentMessage{
		ChatID:  chatID,
		Text:    text,
		Options: buildSendOptions(opts),
	})
	m.nextMessageID++
	return &Message{
		MessageID: m.nextMessageID,
		Chat:      Chat{ID: chatID, Type: "private"},
		Text:      text,
	}, nil
}

func (m *Mock) AnswerCallbackQuery(_ context.Context, callbackQueryID, text string) error {
	if m.AnswerErr != nil {
		return m.AnswerErr
	}
	m.Answered = append(m.Answered, AnsweredCallback{
		CallbackQueryID: callbackQueryID,
		Text:            text,
	})
	return nil
}

func (m *Mock) SetWebhook(_ context.Context, url string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.WebhookURLs = append(m.WebhookURLs, url)
	if m.Info != nil {
		m.Info.URL = url
	}
	return nil
}

func (m *Mock) DeleteWebhook(_ context.Context) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deletes++
	if m.Info != nil {
		m.Info.URL = ""
	}
	return nil
}

func (m *Mock) GetWebhookInfo(_ context.Context) (*WebhookInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if m.Info == nil {
		return &WebhookInfo{}, nil
	}
	return m.Info, nil
}

// Compile-time interface check
var _ Service = (*Mock)(nil)
