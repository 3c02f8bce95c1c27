package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/aturuang/backend/internal/middleware"
	"github.com/aturuang/backend/internal/models"
)

func TestQueryService_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewQueryService(db, NewLedgerService(db, nil))

	t.Run("clamps page and limit", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses WHERE tg_id = \\$1").
			WithArgs("123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE tg_id = \\$1 ORDER BY date DESC, created_at DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs("123", 100, 0).
			WillReturnRows(expenseRows())

		_, pagination, err := service.List(context.Background(), "123", ListParams{Page: -5, Limit: 1000})
		assert.NoError(t, err)
		assert.Equal(t, 1, pagination.Page)
		assert.Equal(t, 100, pagination.Limit)
		assert.Equal(t, int64(250), pagination.Total)
		assert.Equal(t, int64(3), pagination.TotalPages)
	})

	t.Run("unknown sort falls back to date_desc", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses").
			WithArgs("123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("ORDER BY date DESC, created_at DESC").
			WithArgs("123", 20, 0).
			WillReturnRows(expenseRows().AddRow(
				"id-1", int64(20000), "makan", "food", nil, nil, nil, nil,
				"makan 20k", "123", time.Now(), time.Now()))

		expenses, _, err := service.List(context.Background(), "123", ListParams{Sort: "sideways"})
		assert.NoError(t, err)
		assert.Len(t, expenses, 1)
	})

	t.Run("category filter is case-insensitive", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses WHERE tg_id = \\$1 AND LOWER\\(category\\) = \\$2").
			WithArgs("123", "food").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE tg_id = \\$1 AND LOWER\\(category\\) = \\$2").
			WithArgs("123", "food", 20, 0).
			WillReturnRows(expenseRows())

		_, pagination, err := service.List(context.Background(), "123", ListParams{Category: "FOOD"})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), pagination.Total)
		assert.Equal(t, int64(0), pagination.TotalPages)
	})

	t.Run("date window narrows the scan", func(t *testing.T) {
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses WHERE tg_id = \\$1 AND date >= \\$2 AND date <= \\$3").
			WithArgs("123", start, end).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE tg_id = \\$1 AND date >= \\$2 AND date <= \\$3").
			WithArgs("123", start, end, 20, 0).
			WillReturnRows(expenseRows())

		_, pagination, err := service.List(context.Background(), "123",
			ListParams{StartDate: &start, EndDate: &end})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), pagination.Total)
	})
}

func TestQueryService_GetExpenses(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewQueryService(db, NewLedgerService(db, nil))

	t.Run("returns page with pagination", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses").
			WithArgs("123").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM expenses").
			WithArgs("123", 20, 0).
			WillReturnRows(expenseRows().AddRow(
				"id-1", int64(20000), "makan", "food", nil, nil, nil, nil,
				"makan 20k", "123", time.Now(), time.Now()))

		r := httptest.NewRequest("GET", "/api/v1/expenses", nil)
		r = r.WithContext(middleware.WithTgID(r.Context(), "123"))
		w := httptest.NewRecorder()

		service.GetExpenses(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ExpenseListResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(1), resp.Pagination.Total)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/expenses", nil)
		w := httptest.NewRecorder()

		service.GetExpenses(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/expenses?startDate=yesterday", nil)
		r = r.WithContext(middleware.WithTgID(r.Context(), "123"))
		w := httptest.NewRecorder()

		service.GetExpenses(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQueryService_GetExpenseByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewQueryService(db, NewLedgerService(db, nil))

	request := func(id, tgID string) *http.Request {
		r := httptest.NewRequest("GET", "/api/v1/expenses/"+id, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
		return r.WithContext(middleware.WithTgID(ctx, tgID))
	}

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = \\$1 AND tg_id = \\$2").
			WithArgs("id-1", "123").
			WillReturnRows(expenseRows().AddRow(
				"id-1", int64(20000), "makan", "food", nil, nil, nil, nil,
				"makan 20k", "123", time.Now(), time.Now()))

		w := httptest.NewRecorder()
		service.GetExpenseByID(w, request("id-1", "123"))

		assert.Equal(t, http.StatusOK, w.Code)
		var expense models.Expense
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
		assert.Equal(t, "makan", expense.Item)
	})

	t.Run("foreign-owned is a 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = \\$1 AND tg_id = \\$2").
			WithArgs("id-1", "999").
			WillReturnRows(expenseRows())

		w := httptest.NewRecorder()
		service.GetExpenseByID(w, request("id-1", "999"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
