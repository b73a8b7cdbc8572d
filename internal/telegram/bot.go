package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"qook-backend/internal/app"
	"qook-backend/internal/planner"
)

// Bot is a thin Telegram front-end over the same planning pipeline the
// HTTP API uses. It is optional and only started when a token is set.
type Bot struct {
	api        *tgbotapi.BotAPI
	app        *app.App
	allowedIDs []int64
	log        *slog.Logger
}

// NewBot initializes the Telegram bot and registers the webhook.
func NewBot(token, webhookURL string, allowedIDs []int64, application *app.App, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("telegram bot authorized", "account", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	if _, err := api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}

	return &Bot{
		api:        api,
		app:        application,
		allowedIDs: allowedIDs,
		log:        log,
	}, nil
}

// WebhookHandler returns the HTTP handler that receives Telegram updates.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.log.Warn("failed to parse telegram update", "error", err)
			return
		}
		if update.Message == nil {
			return
		}

		if !b.allowed(update.Message.From.ID) {
			b.log.Warn("unauthorized telegram access",
				"user_id", update.Message.From.ID, "username", update.Message.From.UserName)
			return
		}

		b.handleMessage(update.Message)
	}
}

func (b *Bot) allowed(id int64) bool {
	for _, allowed := range b.allowedIDs {
		if id == allowed {
			return true
		}
	}
	return false
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.send(msg.Chat.ID, "Hi! I am Chef Qook. Send /plan for a fresh weekly menu.")
	case "plan":
		b.send(msg.Chat.ID, "On it, composing your week...")
		// Plan generation can take a while; answer asynchronously so the
		// webhook responds fast enough for Telegram.
		go b.generateAndSend(msg.Chat.ID, msg.From.ID)
	default:
		b.send(msg.Chat.ID, "I know /start and /plan.")
	}
}

func (b *Bot) generateAndSend(chatID, userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	req := &planner.PlanRequest{UserID: fmt.Sprintf("tg-%d", userID)}
	result, err := b.app.GenerateWeeklyPlan(ctx, req)
	if err != nil {
		b.log.Error("telegram plan generation failed", "user_id", userID, "error", err)
		b.send(chatID, "Sorry, I could not compose a menu right now.")
		return
	}

	b.send(chatID, formatPlanMessage(result))
}

func formatPlanMessage(result *planner.PlanResult) string {
	var sb strings.Builder
	sb.WriteString("Your weekly menu:\n")
	for _, day := range result.Days {
		fmt.Fprintf(&sb, "Day %d: %s (%d min)\n", day.DayNumber+1, day.Title, day.EstimatedTimeMinutes)
	}
	if result.ZeroWasteReport != "" {
		sb.WriteString("\n" + result.ZeroWasteReport)
	}
	return sb.String()
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}
