package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/session"
	"github.com/example/vocabdrill/pkg/models"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.send(tgbotapi.NewMessage(update.Message.Chat.ID, "Send /study to start a session or /help for the list of commands."))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	userID, chatID := message.From.ID, message.Chat.ID

	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "study":
		b.handleStartLearning(ctx, chatID, userID)
	case "stats":
		b.handleStats(ctx, chatID, userID)
	case "theme":
		b.showThemes(chatID)
	case "notify":
		b.handleNotify(ctx, chatID, userID, message.CommandArguments())
	case "session":
		b.handleSessionDebug(ctx, chatID, userID)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Send /help for the list of commands."))
	}
}

const helpText = "📖 How it works\n\n" +
	"Each session shows a few words: some due for review and some new.\n" +
	"Try to recall each word, reveal the answer and rate yourself.\n" +
	"Words you know come back later and later; forgotten ones come back tomorrow.\n" +
	"At the end you can get a short story that uses the session's words.\n\n" +
	"/study - start a session\n" +
	"/stats - show your progress\n" +
	"/theme - choose the story theme\n" +
	"/notify on|off - turn review reminders on or off\n" +
	"/help - show this help"

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	user := &models.User{
		ID:        message.From.ID,
		Username:  message.From.UserName,
		FirstName: message.From.FirstName,
	}
	if err := b.users.Ensure(ctx, user); err != nil {
		b.logger.Error("failed to register user", "user_id", user.ID, "error", err)
	}

	name := message.From.FirstName
	if name == "" {
		name = "there"
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("👋 Hi %s! I help you learn English words with spaced repetition.\n\n%s", name, helpText))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}
	if callback.From == nil || callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	userID, chatID := callback.From.ID, callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == callbackMainMenu:
		b.showMainMenu(chatID)
	case data == callbackStartLearning:
		b.handleStartLearning(ctx, chatID, userID)
	case data == callbackReveal:
		view, err := b.trainer.Reveal(ctx, userID)
		b.respond(chatID, view, err)
	case strings.HasPrefix(data, callbackGradePrefix):
		quality, word, ok := parseGrade(data)
		if !ok {
			b.logger.Warn("bad grade callback", "data", data)
			return
		}
		view, err := b.trainer.Grade(ctx, userID, word, quality)
		b.respond(chatID, view, err)
	case data == callbackStory:
		b.handleStory(ctx, chatID, userID)
	case data == callbackHome:
		view, err := b.trainer.Home(ctx, userID)
		b.respond(chatID, view, err)
	case data == callbackStats:
		b.handleStats(ctx, chatID, userID)
	case data == callbackThemes:
		b.showThemes(chatID)
	case strings.HasPrefix(data, callbackSubPrefix):
		b.handleThemeChange(ctx, chatID, userID, data)
	case strings.HasPrefix(data, callbackThemePrefix):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, callbackThemePrefix))
		buttons := subThemeButtons(idx)
		if err != nil || buttons == nil {
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Pick a setting:")
		msg.ReplyMarkup = createKeyboard(buttons)
		b.send(msg)
	case data == callbackNotifyOn:
		b.handleNotify(ctx, chatID, userID, "on")
	case data == callbackNotifyOff:
		b.handleNotify(ctx, chatID, userID, "off")
	default:
		b.logger.Warn("unknown callback", "data", data)
	}
}

func (b *Bot) handleStartLearning(ctx context.Context, chatID, userID int64) {
	view, err := b.trainer.Start(ctx, userID)
	if errors.Is(err, session.ErrInvalidTransition) {
		// A session is already running; show where the user left off
		view, err = b.trainer.Current(ctx, userID)
	}
	b.respond(chatID, view, err)
}

// respond renders the state after an action or explains why the action failed
func (b *Bot) respond(chatID int64, view drill.View, err error) {
	switch {
	case errors.Is(err, session.ErrNothingToStudy):
		msg := tgbotapi.NewMessage(chatID, "✅ Nothing to study right now. Come back later!")
		msg.ReplyMarkup = createKeyboard(mainMenuButtons())
		b.send(msg)
		return
	case errors.Is(err, session.ErrInvalidTransition):
		b.send(tgbotapi.NewMessage(chatID, "That button is no longer active."))
	case err != nil:
		b.logger.Error("drill action failed", "chat_id", chatID, "error", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Something went wrong. Please try again."))
		return
	}
	b.showView(chatID, view)
}

func (b *Bot) showView(chatID int64, view drill.View) {
	switch view.Stage {
	case session.StageLearning:
		msg := tgbotapi.NewMessage(chatID, cardText(view))
		msg.ReplyMarkup = createKeyboard(cardButtons(view))
		b.sendMarkdown(msg)
	case session.StageStory:
		msg := tgbotapi.NewMessage(chatID, storyStageText(view))
		msg.ReplyMarkup = createKeyboard(storyButtons(view.StoryAvailable))
		b.send(msg)
	default:
		b.showMainMenu(chatID)
	}
}

func (b *Bot) showMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🏠 Main menu")
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) handleStory(ctx context.Context, chatID, userID int64) {
	var theme, subTheme string
	if user, err := b.users.GetByID(ctx, userID); err == nil {
		theme, subTheme = user.Theme, user.SubTheme
	}

	b.send(tgbotapi.NewMessage(chatID, "✍️ Writing your story..."))
	story, err := b.trainer.Story(ctx, userID, theme, subTheme)
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		b.send(tgbotapi.NewMessage(chatID, "That button is no longer active."))
		return
	case errors.Is(err, drill.ErrNarratorUnavailable):
		msg := tgbotapi.NewMessage(chatID, "Story generation is not configured. Review these words: "+strings.Join(story.Words, ", "))
		msg.ReplyMarkup = createKeyboard(storyButtons(false))
		b.send(msg)
		return
	case err != nil:
		msg := tgbotapi.NewMessage(chatID, "⚠️ Could not write a story this time.")
		msg.ReplyMarkup = createKeyboard(storyButtons(true))
		b.send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, storyText(story))
	msg.ReplyMarkup = createKeyboard(storyButtons(false))
	b.sendMarkdown(msg)
}

func (b *Bot) handleStats(ctx context.Context, chatID, userID int64) {
	summary, err := b.trainer.Stats(ctx, userID)
	if err != nil {
		b.logger.Error("failed to get stats", "user_id", userID, "error", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Could not load your statistics."))
		return
	}
	msg := tgbotapi.NewMessage(chatID, statsText(summary))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) showThemes(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🎭 Choose a theme for your stories:")
	msg.ReplyMarkup = createKeyboard(themeButtons())
	b.send(msg)
}

func (b *Bot) handleThemeChange(ctx context.Context, chatID, userID int64, data string) {
	theme, subTheme, ok := parseSubTheme(data)
	if !ok {
		b.logger.Warn("bad theme callback", "data", data)
		return
	}
	if err := b.users.UpdateTheme(ctx, userID, theme, subTheme); err != nil {
		b.logger.Error("failed to update theme", "user_id", userID, "error", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Could not save your theme. Send /start and try again."))
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Stories will be about %s · %s.", theme, subTheme))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) handleNotify(ctx context.Context, chatID, userID int64, arg string) {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		msg := tgbotapi.NewMessage(chatID, "Review reminders:")
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			{Text: "🔔 On", CallbackData: callbackNotifyOn},
			{Text: "🔕 Off", CallbackData: callbackNotifyOff},
		}})
		b.send(msg)
		return
	}

	if err := b.users.SetNotifications(ctx, userID, enabled); err != nil {
		b.logger.Error("failed to update notifications", "user_id", userID, "error", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Could not update reminders. Send /start and try again."))
		return
	}
	if enabled {
		b.send(tgbotapi.NewMessage(chatID, "🔔 Reminders are on."))
	} else {
		b.send(tgbotapi.NewMessage(chatID, "🔕 Reminders are off."))
	}
}

// handleSessionDebug shows admins the raw state of their own session
func (b *Bot) handleSessionDebug(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(userID) {
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Send /help for the list of commands."))
		return
	}
	view, err := b.trainer.Current(ctx, userID)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "error: "+err.Error()))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("stage=%s session=%s word=%q revealed=%t progress=%d/%d unknown=%v",
		view.Stage, view.SessionID, view.Word, view.ShowAnswer, view.Done, view.Total, view.UnknownWords)))
}
