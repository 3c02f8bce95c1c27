package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"

	"github.com/aturuang/backend/internal/models"
)

func strPtr(v string) *string { return &v }

func expenseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "amount", "item", "category", "place",
		"with_person", "mood", "story", "raw_message", "tg_id", "date", "created_at"})
}

func TestLedgerService_AppendBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	service := NewLedgerService(db, redisClient)

	date := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)

	t.Run("all drafts persisted in order", func(t *testing.T) {
		drafts := []models.ExpenseDraft{
			{Amount: 50000, Item: "makan", Category: "food", Date: date},
			{Amount: 25000, Item: "kopi", Category: "coffee", Mood: strPtr("happy"), Date: date},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO expenses").
			WithArgs(sqlmock.AnyArg(), int64(50000), "makan", "food", nil, nil, nil, nil,
				"makan 50k, kopi 25k", "123", date).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectQuery("INSERT INTO expenses").
			WithArgs(sqlmock.AnyArg(), int64(25000), "kopi", "coffee", nil, nil, "happy", nil,
				"makan 50k, kopi 25k", "123", date).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectCommit()
		redisMock.ExpectDel("summary:123").SetVal(1)

		expenses, err := service.AppendBatch(context.Background(), "123", "makan 50k, kopi 25k", drafts)
		assert.NoError(t, err)
		assert.Len(t, expenses, 2)
		assert.NotEmpty(t, expenses[0].ID)
		assert.NotEqual(t, expenses[0].ID, expenses[1].ID)
		assert.Equal(t, "makan", expenses[0].Item)
		assert.Equal(t, "kopi", expenses[1].Item)
		assert.Equal(t, "makan 50k, kopi 25k", expenses[0].RawMessage)
		assert.Equal(t, "123", expenses[1].TgID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed insert rolls back the whole batch", func(t *testing.T) {
		drafts := []models.ExpenseDraft{
			{Amount: 50000, Item: "makan", Category: "food", Date: date},
			{Amount: 25000, Item: "kopi", Category: "coffee", Date: date},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO expenses").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectQuery("INSERT INTO expenses").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		expenses, err := service.AppendBatch(context.Background(), "123", "makan 50k, kopi 25k", drafts)
		assert.Error(t, err)
		assert.Nil(t, expenses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		expenses, err := service.AppendBatch(context.Background(), "123", "halo", nil)
		assert.NoError(t, err)
		assert.Empty(t, expenses)
	})
}

func TestLedgerService_DeleteMostRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	service := NewLedgerService(db, redisClient)

	t.Run("removes latest by creation time", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM expenses").
			WithArgs("123").
			WillReturnRows(expenseRows().AddRow(
				"id-2", int64(25000), "kopi", "coffee", nil, nil, nil, nil,
				"kopi 25k", "123", time.Now(), time.Now()))
		redisMock.ExpectDel("summary:123").SetVal(1)

		expense, err := service.DeleteMostRecent(context.Background(), "123")
		assert.NoError(t, err)
		assert.Equal(t, "id-2", expense.ID)
		assert.Equal(t, int64(25000), expense.Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ledger yields ErrNothingToUndo", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM expenses").
			WithArgs("123").
			WillReturnRows(expenseRows())

		_, err := service.DeleteMostRecent(context.Background(), "123")
		assert.ErrorIs(t, err, models.ErrNothingToUndo)
	})
}

func TestLedgerService_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db, nil)

	t.Run("owned record found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = \\$1 AND tg_id = \\$2").
			WithArgs("id-1", "123").
			WillReturnRows(expenseRows().AddRow(
				"id-1", int64(35000), "kopi", "coffee", "starbucks", "pacar", nil, nil,
				"kemarin kopi 35k", "123", time.Now(), time.Now()))

		expense, err := service.GetByID(context.Background(), "123", "id-1")
		assert.NoError(t, err)
		assert.Equal(t, "kopi", expense.Item)
		assert.Equal(t, "starbucks", *expense.Place)
	})

	t.Run("foreign-owned record reads as absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = \\$1 AND tg_id = \\$2").
			WithArgs("id-1", "999").
			WillReturnRows(expenseRows())

		_, err := service.GetByID(context.Background(), "999", "id-1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestLedgerService_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewLedgerService(db, nil)

	mock.ExpectQuery("SELECT (.+) FROM expenses").
		WithArgs("123", 10).
		WillReturnRows(expenseRows().
			AddRow("id-2", int64(25000), "kopi", "coffee", nil, nil, nil, nil, "kopi 25k", "123", time.Now(), time.Now()).
			AddRow("id-1", int64(50000), "makan", "food", nil, nil, nil, nil, "makan 50k", "123", time.Now(), time.Now()))

	expenses, err := service.Recent(context.Background(), "123", 0)
	assert.NoError(t, err)
	assert.Len(t, expenses, 2)
	assert.Equal(t, "id-2", expenses[0].ID)
}
