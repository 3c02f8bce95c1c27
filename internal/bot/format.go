package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aturuang/backend/internal/models"
)

var categoryEmoji = map[string]string{
	"food":          "🍜",
	"coffee":        "☕",
	"transport":     "🚗",
	"shopping":      "🛍",
	"entertainment": "🎮",
	"bills":         "🧾",
	"health":        "💊",
	"groceries":     "🛒",
	"snack":         "🍪",
	"drink":         "🥤",
	"other":         "💸",
}

// formatRupiah renders an amount with dot thousand separators, e.g. Rp25.000.
func formatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return "Rp" + sb.String()
}

func emojiFor(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return categoryEmoji["other"]
}

func formatExpenseLine(e models.Expense) string {
	line := fmt.Sprintf("%s %s - %s", emojiFor(e.Category), e.Item, formatRupiah(e.Amount))
	if e.Place != nil {
		line += fmt.Sprintf(" 📍%s", *e.Place)
	}
	return line
}

func formatRecorded(expenses []models.Expense) string {
	var sb strings.Builder
	if len(expenses) == 1 {
		sb.WriteString("✅ Tercatat!\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("✅ Tercatat %d pengeluaran!\n\n", len(expenses)))
	}

	var total int64
	for _, e := range expenses {
		sb.WriteString(formatExpenseLine(e))
		if e.Mood != nil {
			sb.WriteString(fmt.Sprintf(" (%s)", *e.Mood))
		}
		sb.WriteString("\n")
		total += e.Amount
	}

	if len(expenses) > 1 {
		sb.WriteString(fmt.Sprintf("\nTotal: <b>%s</b>", formatRupiah(total)))
	}
	return sb.String()
}

func formatDay(expenses []models.Expense) string {
	if len(expenses) == 0 {
		return "Belum ada pengeluaran hari ini 🎉"
	}

	var sb strings.Builder
	sb.WriteString("📆 <b>Hari ini</b>\n\n")
	var total int64
	for _, e := range expenses {
		sb.WriteString(formatExpenseLine(e))
		sb.WriteString("\n")
		total += e.Amount
	}
	sb.WriteString(fmt.Sprintf("\nTotal: <b>%s</b> (%d transaksi)", formatRupiah(total), len(expenses)))
	return sb.String()
}

func formatMonth(summary *models.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 <b>Bulan ini</b>\n\nTotal: <b>%s</b> (%d transaksi)\n",
		formatRupiah(summary.Month.Total), summary.Month.Count))

	if len(summary.ByCategory) > 0 {
		sb.WriteString("\n<b>Per kategori:</b>\n")

		categories := make([]string, 0, len(summary.ByCategory))
		for c := range summary.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool {
			return summary.ByCategory[categories[i]].Total > summary.ByCategory[categories[j]].Total
		})

		for _, c := range categories {
			stats := summary.ByCategory[c]
			sb.WriteString(fmt.Sprintf("%s %s: %s (%d)\n", emojiFor(c), c, formatRupiah(stats.Total), stats.Count))
		}
	}

	if len(summary.ByMood) > 0 {
		sb.WriteString("\n<b>Mood:</b> ")
		moods := make([]string, 0, len(summary.ByMood))
		for m := range summary.ByMood {
			moods = append(moods, m)
		}
		sort.Slice(moods, func(i, j int) bool {
			return summary.ByMood[moods[i]] > summary.ByMood[moods[j]]
		})
		parts := make([]string, 0, len(moods))
		for _, m := range moods {
			parts = append(parts, fmt.Sprintf("%s ×%d", m, summary.ByMood[m]))
		}
		sb.WriteString(strings.Join(parts, ", "))
	}

	return sb.String()
}
