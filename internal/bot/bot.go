// Package bot is the Telegram front end of the drill.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// Trainer is the drill service as seen by the bot
type Trainer interface {
	Start(ctx context.Context, userID int64) (drill.View, error)
	Current(ctx context.Context, userID int64) (drill.View, error)
	Reveal(ctx context.Context, userID int64) (drill.View, error)
	Grade(ctx context.Context, userID int64, word string, quality models.Quality) (drill.View, error)
	Story(ctx context.Context, userID int64, theme, subTheme string) (drill.StoryView, error)
	Home(ctx context.Context, userID int64) (drill.View, error)
	Stats(ctx context.Context, userID int64) (spaced_repetition.Summary, error)
}

// UserStore keeps user profiles and preferences
type UserStore interface {
	Ensure(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateTheme(ctx context.Context, id int64, theme, subTheme string) error
	SetNotifications(ctx context.Context, id int64, enabled bool) error
}

// sender is the part of tgbotapi.BotAPI the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api     sender
	botAPI  *tgbotapi.BotAPI
	token   string
	trainer Trainer
	users   UserStore
	admins  map[int64]bool
	logger  *slog.Logger
}

// New creates a new bot instance
func New(token string, adminIDs []int64, trainer Trainer, users UserStore, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not set")
	}
	if trainer == nil || users == nil {
		return nil, errors.New("trainer and user store are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}

	return &Bot{
		token:   token,
		trainer: trainer,
		users:   users,
		admins:  admins,
		logger:  logger.With("component", "bot"),
	}, nil
}

// Start connects to Telegram and handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.botAPI = botAPI
	b.api = botAPI
	b.logger.Info("authorized on account", "username", botAPI.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	if b.botAPI != nil {
		b.botAPI.StopReceivingUpdates()
	}
	b.logger.Info("bot stopped")
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(userID int64, count int) error {
	if b.api == nil {
		return errors.New("bot is not connected")
	}

	// Private chats share the user's ID
	msg := tgbotapi.NewMessage(userID, reminderText(count))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📚 Start learning", CallbackData: callbackStartLearning}}})
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	b.logger.Info("reminder sent", "user_id", userID, "due", count)
	return nil
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}

// sendMarkdown sends text with Markdown formatting and falls back to plain text
// when Telegram rejects the markup.
func (b *Bot) sendMarkdown(msg tgbotapi.MessageConfig) {
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err == nil {
		return
	}
	msg.ParseMode = ""
	msg.Text = stripMarkdown(msg.Text)
	b.send(msg)
}
