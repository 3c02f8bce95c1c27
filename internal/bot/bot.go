package bot

import (
	"context"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aturuang/backend/internal/services"
)

// Bot is the Telegram chat surface. Free text and voice notes are recorded as
// expenses; commands cover summaries, undo and dashboard access.
type Bot struct {
	api      *tgbotapi.BotAPI
	expenses *services.ExpenseService
	queries  *services.QueryService
	summary  *services.SummaryService
	auth     *services.AuthService
	links    *services.LinkService
	voice    *services.VoiceService
}

func NewBot(token string, expenses *services.ExpenseService, queries *services.QueryService,
	summary *services.SummaryService, auth *services.AuthService,
	links *services.LinkService, voice *services.VoiceService) (*Bot, error) {

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		expenses: expenses,
		queries:  queries,
		summary:  summary,
		auth:     auth,
		links:    links,
		voice:    voice,
	}, nil
}

// Start runs the long-polling loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("[BOT] Authorized as @%s", b.api.Self.UserName)

	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				log.Printf("[BOT] Error handling update: %v", err)
			}
		}
	}
}

func (b *Bot) registerCommands() {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Mulai / restart bot"},
		tgbotapi.BotCommand{Command: "today", Description: "Pengeluaran hari ini"},
		tgbotapi.BotCommand{Command: "week", Description: "Ringkasan minggu ini"},
		tgbotapi.BotCommand{Command: "month", Description: "Ringkasan bulan ini"},
		tgbotapi.BotCommand{Command: "recent", Description: "10 transaksi terakhir"},
		tgbotapi.BotCommand{Command: "undo", Description: "Hapus transaksi terakhir"},
		tgbotapi.BotCommand{Command: "setpassword", Description: "Set password dashboard"},
		tgbotapi.BotCommand{Command: "customid", Description: "Set custom login ID"},
		tgbotapi.BotCommand{Command: "dashboard", Description: "Link login dashboard"},
	)
	if _, err := b.api.Request(commands); err != nil {
		log.Printf("[BOT] Failed to register commands: %v", err)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	message := update.Message
	tgID := formatTgID(message.From.ID)

	if err := b.auth.EnsureUser(ctx, tgID, displayName(message.From)); err != nil {
		log.Printf("[BOT] Failed to ensure user %s: %v", tgID, err)
	}

	if message.IsCommand() {
		return b.handleCommand(ctx, message, tgID)
	}

	if message.Voice != nil {
		return b.handleVoice(ctx, message, tgID)
	}

	if message.Text != "" {
		return b.handleText(ctx, message, tgID, message.Text)
	}

	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("[BOT] Failed to send message: %v", err)
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

func formatTgID(id int64) string {
	return strconv.FormatInt(id, 10)
}
