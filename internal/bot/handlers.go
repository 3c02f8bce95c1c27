package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aturuang/backend/internal/models"
	"github.com/aturuang/backend/internal/services"
)

const welcomeText = `Halo! Aku AturUang 💸

Catat pengeluaran cukup dengan chat biasa:
• <i>kopi 25k di starbucks</i>
• <i>kemarin grab 45k males jalan kaki</i>
• <i>makan 50k, kopi 25k, grab 30k</i>

Bisa juga kirim voice note!

Perintah:
/today - pengeluaran hari ini
/week - ringkasan minggu ini
/month - ringkasan bulan ini
/recent - 10 transaksi terakhir
/undo - hapus transaksi terakhir
/setpassword - set password dashboard
/customid - set custom login ID
/dashboard - link login dashboard`

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, tgID string) error {
	switch message.Command() {
	case "start":
		b.reply(message.Chat.ID, welcomeText)
	case "today":
		b.handleToday(ctx, message.Chat.ID, tgID)
	case "week":
		b.handleWeek(ctx, message.Chat.ID, tgID)
	case "month":
		b.handleMonth(ctx, message.Chat.ID, tgID)
	case "recent":
		b.handleRecent(ctx, message.Chat.ID, tgID)
	case "undo":
		b.handleUndo(ctx, message.Chat.ID, tgID)
	case "setpassword":
		b.handleSetPassword(ctx, message, tgID)
	case "customid":
		b.handleCustomID(ctx, message, tgID)
	case "dashboard":
		b.handleDashboard(ctx, message.Chat.ID, tgID)
	default:
		b.reply(message.Chat.ID, "Perintah tidak dikenal. Coba /start")
	}
	return nil
}

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message, tgID, text string) error {
	expenses, diagnostic, err := b.expenses.RecordMessage(ctx, tgID, text, time.Now())
	if err != nil {
		log.Printf("[BOT] Failed to record message for %s: %v", tgID, err)
		b.reply(message.Chat.ID, "Waduh, lagi ada gangguan. Coba lagi ya 🙏")
		return err
	}
	if diagnostic != "" {
		log.Printf("[BOT] Interpretation failed for %s: %s", tgID, diagnostic)
		b.reply(message.Chat.ID, "Hmm, aku lagi bingung nih. Coba tulis ulang ya 🙏")
		return nil
	}
	if len(expenses) == 0 {
		b.reply(message.Chat.ID, "Nggak nemu pengeluaran di pesan itu 🤔\nContoh: <i>kopi 25k di starbucks</i>")
		return nil
	}

	b.reply(message.Chat.ID, formatRecorded(expenses))
	return nil
}

func (b *Bot) handleVoice(ctx context.Context, message *tgbotapi.Message, tgID string) error {
	if !b.voice.Available() {
		b.reply(message.Chat.ID, "Voice note belum aktif. Ketik aja dulu ya 🙏")
		return nil
	}

	audio, err := b.downloadVoice(message.Voice.FileID)
	if err != nil {
		log.Printf("[BOT] Failed to download voice note for %s: %v", tgID, err)
		b.reply(message.Chat.ID, "Gagal ambil voice note-nya. Coba lagi ya 🙏")
		return err
	}

	text, err := b.voice.Transcribe(ctx, audio)
	if err != nil {
		log.Printf("[BOT] Transcription failed for %s: %v", tgID, err)
		b.reply(message.Chat.ID, "Nggak kedengeran jelas nih 🙉 Coba lagi atau ketik aja")
		return nil
	}

	b.reply(message.Chat.ID, fmt.Sprintf("🎙 <i>%s</i>", text))
	return b.handleText(ctx, message, tgID, text)
}

func (b *Bot) downloadVoice(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file URL: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
}

func (b *Bot) handleToday(ctx context.Context, chatID int64, tgID string) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	expenses, _, err := b.queries.List(ctx, tgID, services.ListParams{
		Limit:     100,
		StartDate: &start,
		EndDate:   &start,
		Sort:      "date_desc",
	})
	if err != nil {
		log.Printf("[BOT] Today listing failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal ambil data. Coba lagi ya 🙏")
		return
	}

	b.reply(chatID, formatDay(expenses))
}

func (b *Bot) handleWeek(ctx context.Context, chatID int64, tgID string) {
	summary, err := b.summary.Summarize(ctx, tgID, time.Now())
	if err != nil {
		log.Printf("[BOT] Week summary failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal ambil data. Coba lagi ya 🙏")
		return
	}

	b.reply(chatID, fmt.Sprintf("📅 <b>Minggu ini</b>\n\nTotal: %s (%d transaksi)",
		formatRupiah(summary.Week.Total), summary.Week.Count))
}

func (b *Bot) handleMonth(ctx context.Context, chatID int64, tgID string) {
	summary, err := b.summary.Summarize(ctx, tgID, time.Now())
	if err != nil {
		log.Printf("[BOT] Month summary failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal ambil data. Coba lagi ya 🙏")
		return
	}

	b.reply(chatID, formatMonth(summary))
}

func (b *Bot) handleRecent(ctx context.Context, chatID int64, tgID string) {
	expenses, err := b.expenses.Recent(ctx, tgID, 10)
	if err != nil {
		log.Printf("[BOT] Recent listing failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal ambil data. Coba lagi ya 🙏")
		return
	}
	if len(expenses) == 0 {
		b.reply(chatID, "Belum ada transaksi 📭")
		return
	}

	var sb strings.Builder
	sb.WriteString("🕐 <b>10 transaksi terakhir</b>\n\n")
	for _, e := range expenses {
		sb.WriteString(formatExpenseLine(e))
		sb.WriteString("\n")
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleUndo(ctx context.Context, chatID int64, tgID string) {
	expense, err := b.expenses.Undo(ctx, tgID)
	if errors.Is(err, models.ErrNothingToUndo) {
		b.reply(chatID, "Nggak ada yang bisa di-undo 🤷")
		return
	}
	if err != nil {
		log.Printf("[BOT] Undo failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal undo. Coba lagi ya 🙏")
		return
	}

	b.reply(chatID, fmt.Sprintf("🗑 Dihapus: %s %s", expense.Item, formatRupiah(expense.Amount)))
}

func (b *Bot) handleSetPassword(ctx context.Context, message *tgbotapi.Message, tgID string) {
	password := strings.TrimSpace(message.CommandArguments())
	if password == "" {
		b.reply(message.Chat.ID, "Format: /setpassword <i>password_baru</i>")
		return
	}

	if err := b.auth.SetDashboardPassword(ctx, tgID, password); err != nil {
		log.Printf("[BOT] Set password failed for %s: %v", tgID, err)
		b.reply(message.Chat.ID, "Password minimal 4 karakter ya")
		return
	}

	b.reply(message.Chat.ID, "Password dashboard udah diset ✅")
}

func (b *Bot) handleCustomID(ctx context.Context, message *tgbotapi.Message, tgID string) {
	customID := strings.TrimSpace(message.CommandArguments())
	if customID == "" {
		b.reply(message.Chat.ID, "Format: /customid <i>id_pilihan</i>")
		return
	}

	err := b.auth.SetCustomID(ctx, tgID, customID)
	if errors.Is(err, models.ErrConflict) {
		b.reply(message.Chat.ID, "ID itu udah dipakai orang lain 😅 Coba yang lain")
		return
	}
	if err != nil {
		log.Printf("[BOT] Set custom ID failed for %s: %v", tgID, err)
		b.reply(message.Chat.ID, "Custom ID minimal 3 karakter ya")
		return
	}

	b.reply(message.Chat.ID, fmt.Sprintf("Custom ID kamu sekarang: <b>%s</b> ✅", strings.ToLower(customID)))
}

func (b *Bot) handleDashboard(ctx context.Context, chatID int64, tgID string) {
	qr, url, err := b.links.GenerateLinkQR(ctx, tgID)
	if err != nil {
		log.Printf("[BOT] Dashboard link failed for %s: %v", tgID, err)
		b.reply(chatID, "Gagal bikin link dashboard. Coba lagi ya 🙏")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "dashboard.png", Bytes: qr})
	photo.Caption = fmt.Sprintf("Scan QR atau buka link (berlaku 5 menit, sekali pakai):\n%s", url)
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("[BOT] Failed to send dashboard QR: %v", err)
		b.reply(chatID, fmt.Sprintf("Link dashboard (berlaku 5 menit, sekali pakai):\n%s", url))
	}
}
