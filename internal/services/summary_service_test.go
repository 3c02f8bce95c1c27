package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/aturuang/backend/internal/models"
)

func TestSummaryService_Summarize(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewSummaryService(db, nil)

	// Thursday 2024-02-08: week window is Mon 2024-02-05 .. Sun 2024-02-11,
	// month window is 2024-02-01 .. 2024-02-29.
	now := time.Date(2024, 2, 8, 15, 30, 0, 0, time.UTC)
	dayStart := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	weekStart := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	statsQuery := "SELECT COALESCE\\(SUM\\(amount\\), 0\\), COUNT\\(\\*\\)"

	mock.ExpectQuery(statsQuery).
		WithArgs("123", dayStart, dayStart).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(45000, 2))
	mock.ExpectQuery(statsQuery).
		WithArgs("123", weekStart, weekEnd).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(180000, 6))
	mock.ExpectQuery(statsQuery).
		WithArgs("123", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(720000, 20))

	mock.ExpectQuery("SELECT category, SUM\\(amount\\), COUNT\\(\\*\\)").
		WithArgs("123", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"category", "sum", "count"}).
			AddRow("food", 400000, 10).
			AddRow("coffee", 320000, 10))

	mock.ExpectQuery("SELECT mood, COUNT\\(\\*\\)").
		WithArgs("123", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"mood", "count"}).
			AddRow("happy", 4).
			AddRow("regret", 1))

	summary, err := service.Summarize(context.Background(), "123", now)
	assert.NoError(t, err)

	assert.Equal(t, models.WindowStats{Total: 45000, Count: 2}, summary.Today)
	assert.Equal(t, models.WindowStats{Total: 180000, Count: 6}, summary.Week)
	assert.Equal(t, models.WindowStats{Total: 720000, Count: 20}, summary.Month)
	assert.Equal(t, models.WindowStats{Total: 400000, Count: 10}, summary.ByCategory["food"])
	assert.Equal(t, 4, summary.ByMood["happy"])
	assert.Len(t, summary.ByMood, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryService_Summarize_MondayReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewSummaryService(db, nil)

	// A Monday is its own week start.
	now := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)
	dayStart := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	weekEnd := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	statsQuery := "SELECT COALESCE\\(SUM\\(amount\\), 0\\), COUNT\\(\\*\\)"
	empty := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"sum", "count"}).AddRow(0, 0)
	}

	mock.ExpectQuery(statsQuery).WithArgs("123", dayStart, dayStart).WillReturnRows(empty())
	mock.ExpectQuery(statsQuery).WithArgs("123", dayStart, weekEnd).WillReturnRows(empty())
	mock.ExpectQuery(statsQuery).WithArgs("123", monthStart, monthEnd).WillReturnRows(empty())
	mock.ExpectQuery("SELECT category").WithArgs("123", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"category", "sum", "count"}))
	mock.ExpectQuery("SELECT mood").WithArgs("123", monthStart, monthEnd).
		WillReturnRows(sqlmock.NewRows([]string{"mood", "count"}))

	summary, err := service.Summarize(context.Background(), "123", now)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Today.Count)
	assert.Empty(t, summary.ByCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryService_CacheRoundTrip(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	service := NewSummaryService(db, redisClient)

	cached := models.Summary{
		Today:      models.WindowStats{Total: 45000, Count: 2},
		ByCategory: map[string]models.WindowStats{"food": {Total: 45000, Count: 2}},
		ByMood:     map[string]int{"happy": 1},
	}
	payload, err := json.Marshal(&cached)
	assert.NoError(t, err)

	redisMock.ExpectGet("summary:123").SetVal(string(payload))

	// A cache hit never touches the database; sqlmock would fail on any query.
	summary, err := service.Summarize(context.Background(), "123", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, cached.Today, summary.Today)
	assert.Equal(t, cached.ByCategory, summary.ByCategory)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
