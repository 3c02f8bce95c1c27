package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aturuang/backend/internal/models"
)

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp0",
		500:     "Rp500",
		20000:   "Rp20.000",
		150000:  "Rp150.000",
		1500000: "Rp1.500.000",
	}
	for amount, want := range cases {
		assert.Equal(t, want, formatRupiah(amount))
	}
}

func TestFormatRecorded(t *testing.T) {
	mood := "regret"
	place := "kantin"

	t.Run("single expense", func(t *testing.T) {
		text := formatRecorded([]models.Expense{
			{Item: "bebek bakar", Amount: 80000, Category: "food", Place: &place, Mood: &mood},
		})
		assert.Contains(t, text, "Tercatat")
		assert.Contains(t, text, "bebek bakar")
		assert.Contains(t, text, "Rp80.000")
		assert.Contains(t, text, "kantin")
		assert.Contains(t, text, "regret")
		assert.NotContains(t, text, "Total")
	})

	t.Run("multiple expenses include the total", func(t *testing.T) {
		text := formatRecorded([]models.Expense{
			{Item: "makan", Amount: 50000, Category: "food"},
			{Item: "kopi", Amount: 25000, Category: "coffee"},
		})
		assert.Contains(t, text, "2 pengeluaran")
		assert.Contains(t, text, "Total: <b>Rp75.000</b>")
	})
}

func TestFormatMonth(t *testing.T) {
	summary := &models.Summary{
		Month: models.WindowStats{Total: 720000, Count: 20},
		ByCategory: map[string]models.WindowStats{
			"coffee": {Total: 320000, Count: 10},
			"food":   {Total: 400000, Count: 10},
		},
		ByMood: map[string]int{"happy": 4, "regret": 1},
	}

	text := formatMonth(summary)

	assert.Contains(t, text, "Rp720.000")
	assert.Contains(t, text, "20 transaksi")
	// Categories are ordered by spend, largest first.
	assert.Less(t, strings.Index(text, "food"), strings.Index(text, "coffee"))
	assert.Contains(t, text, "happy ×4")
}

func TestFormatDay(t *testing.T) {
	assert.Contains(t, formatDay(nil), "Belum ada")

	text := formatDay([]models.Expense{
		{Item: "kopi", Amount: 25000, Category: "coffee"},
	})
	assert.Contains(t, text, "Rp25.000")
	assert.Contains(t, text, "1 transaksi")
}
