// Package bot dispatches incoming Telegram updates to command handlers. It
// holds no state beyond the outbound service and is safe for concurrent use.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/janisto/vercel-playground/internal/service/telegram"
)

const helpText = "📋 <b>Available Commands:</b>\n\n" +
	"/start - Start the bot\n" +
	"/help - Show this help message\n" +
	"/echo [text] - Echo your message\n" +
	"/status - Check bot status\n" +
	"/keyboard - Show sample keyboard\n" +
	"/info - Get your user info"

const statusText = "✅ Bot is running perfectly!\n\n🚀 FastAPI + Vercel deployment active"

// Bot routes updates to command handlers and replies through the service.
type Bot struct {
	svc telegram.Service
}

// New creates a Bot backed by the given Telegram service.
func New(svc telegram.Service) *Bot {
	return &Bot{svc: svc}
}

// HandleUpdate processes a single webhook update. Updates carrying neither a
// message nor a callback query are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	if update == nil {
		return nil
	}
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	text := msg.Text
	name := senderName(msg.From)

	switch {
	case strings.HasPrefix(text, "/start"):
		reply := fmt.Sprintf("🤖 Hello %s! Welcome to the bot!\n\nUse /help to see available commands.", name)
		return b.send(ctx, chatID, reply)

	case strings.HasPrefix(text, "/help"):
		return b.send(ctx, chatID, helpText)

	case strings.HasPrefix(text, "/echo"):
		echo := strings.TrimSpace(strings.TrimPrefix(text, "/echo"))
		if echo == "" {
			return b.send(ctx, chatID, "Please provide text to echo!\n\nExample: <code>/echo Hello World</code>")
		}
		return b.send(ctx, chatID, fmt.Sprintf("🔄 You said: <i>%s</i>", echo))

	case strings.HasPrefix(text, "/status"):
		return b.send(ctx, chatID, statusText)

	case strings.HasPrefix(text, "/keyboard"):
		_, err := b.svc.SendMessage(ctx, chatID,
			"🎛️ <b>Sample Keyboard</b>\n\nChoose an option below:",
			telegram.WithReplyMarkup(sampleKeyboard()),
		)
		return err

	case strings.HasPrefix(text, "/info"):
		return b.send(ctx, chatID, infoText(msg))

	default:
		reply := fmt.Sprintf("👋 Hello %s!\n\n💬 You sent: <i>%s</i>\n\nUse /help to see available commands.", name, text)
		return b.send(ctx, chatID, reply)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, cb *telegram.CallbackQuery) error {
	chatID := cb.From.ID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}

	var reply string
	switch cb.Data {
	case "btn1":
		reply = "🔵 You clicked Button 1!"
	case "btn2":
		reply = "🟢 You clicked Button 2!"
	case "help":
		reply = "❓ This is the help section from inline keyboard!"
	case "about":
		reply = "ℹ️ This bot is built with FastAPI and deployed on Vercel!"
	default:
		reply = fmt.Sprintf("🎯 You clicked: %s", cb.Data)
	}

	// Answer the callback even when the chat reply fails, otherwise the
	// client keeps showing a loading spinner on the button.
	sendErr := b.send(ctx, chatID, reply)
	answerErr := b.svc.AnswerCallbackQuery(ctx, cb.ID, "✅ Action completed!")
	return errors.Join(sendErr, answerErr)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	_, err := b.svc.SendMessage(ctx, chatID, text)
	return err
}

func infoText(msg *telegram.Message) string {
	if msg.From == nil {
		return "ℹ️ User information not available"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <b>Your Information:</b>\n\n")
	fmt.Fprintf(&sb, "🆔 User ID: <code>%d</code>\n", msg.From.ID)
	fmt.Fprintf(&sb, "👋 Name: %s\n", msg.From.FirstName)
	fmt.Fprintf(&sb, "💬 Chat ID: <code>%d</code>", msg.Chat.ID)
	if msg.From.Username != "" {
		fmt.Fprintf(&sb, "\n📝 Username: @%s", msg.From.Username)
	}
	return sb.String()
}

func sampleKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "🔵 Button 1", CallbackData: "btn1"},
				{Text: "🟢 Button 2", CallbackData: "btn2"},
			},
			{
				{Text: "❓ Help", CallbackData: "help"},
				{Text: "ℹ️ About", CallbackData: "about"},
			},
		},
	}
}

func senderName(u *telegram.User) string {
	if u == nil || u.FirstName == "" {
		return "User"
	}
	return u.FirstName
}
