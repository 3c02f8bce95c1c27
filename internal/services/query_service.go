package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aturuang/backend/internal/middleware"
	"github.com/aturuang/backend/internal/models"
)

// QueryService serves read-only expense listings over the ledger.
type QueryService struct {
	db     *sql.DB
	ledger *LedgerService
}

// ListParams carries the normalized query window. Page and Limit are clamped
// before the query runs, so any caller input is safe here.
type ListParams struct {
	Page      int
	Limit     int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      string
}

// ExpenseListResponse is the paginated listing payload
// @Description Paginated expense list
type ExpenseListResponse struct {
	Data       []models.Expense  `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// sortClauses whitelists the ORDER BY forms. Anything outside the map falls
// back to newest-first by date.
var sortClauses = map[string]string{
	"date_asc":    "date ASC, created_at ASC",
	"date_desc":   "date DESC, created_at DESC",
	"amount_asc":  "amount ASC, created_at DESC",
	"amount_desc": "amount DESC, created_at DESC",
}

const defaultSort = "date_desc"

func NewQueryService(db *sql.DB, ledger *LedgerService) *QueryService {
	return &QueryService{
		db:     db,
		ledger: ledger,
	}
}

// List returns one page of the account's expenses plus the pagination window.
func (s *QueryService) List(ctx context.Context, tgID string, params ListParams) ([]models.Expense, models.Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	orderBy, ok := sortClauses[params.Sort]
	if !ok {
		orderBy = sortClauses[defaultSort]
	}

	// Ownership scoping is unconditional; filters only narrow within it.
	where := []string{"tg_id = $1"}
	args := []any{tgID}

	if params.Category != "" {
		args = append(args, strings.ToLower(params.Category))
		where = append(where, fmt.Sprintf("LOWER(category) = $%d", len(args)))
	}
	if params.StartDate != nil {
		args = append(args, *params.StartDate)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if params.EndDate != nil {
		args = append(args, *params.EndDate)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE "+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count expenses: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	args = append(args, params.Limit, offset)
	query := fmt.Sprintf("SELECT %s FROM expenses WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		expenseColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0, params.Limit)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, models.Pagination{}, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := models.Pagination{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}
	if total > 0 {
		pagination.TotalPages = (total + int64(params.Limit) - 1) / int64(params.Limit)
	}

	return expenses, pagination, nil
}

// GetExpenses lists the caller's expenses
// @Summary List expenses
// @Description Get paginated list of expenses with optional filters
// @Tags expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(20)
// @Param category query string false "Filter by category"
// @Param startDate query string false "Filter from date (YYYY-MM-DD)"
// @Param endDate query string false "Filter to date (YYYY-MM-DD)"
// @Param sort query string false "Sort order" Enums(date_asc, date_desc, amount_asc, amount_desc)
// @Success 200 {object} ExpenseListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /expenses [get]
func (s *QueryService) GetExpenses(w http.ResponseWriter, r *http.Request) {
	tgID, ok := middleware.TgIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	expenses, pagination, err := s.List(r.Context(), tgID, params)
	if err != nil {
		log.Printf("[QUERY] Listing failed for account %s: %v", tgID, err)
		SendErrorResponse(w, "Failed to list expenses", http.StatusInternalServerError, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, ExpenseListResponse{
		Data:       expenses,
		Pagination: pagination,
	})
}

// GetExpenseByID fetches one expense
// @Summary Get expense by ID
// @Description Get a single expense by its ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} models.Expense
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Security Bearer
// @Router /expenses/{id} [get]
func (s *QueryService) GetExpenseByID(w http.ResponseWriter, r *http.Request) {
	tgID, ok := middleware.TgIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	id := chi.URLParam(r, "id")
	expense, err := s.ledger.GetByID(r.Context(), tgID, id)
	if err != nil {
		status := StatusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("[QUERY] Lookup failed for expense %s: %v", id, err)
			SendErrorResponse(w, "Failed to fetch expense", status, nil)
			return
		}
		SendErrorResponse(w, "Expense not found", status, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, expense)
}

func parseListParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	params := ListParams{
		Page:     1,
		Limit:    20,
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}

	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Page = v
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Limit = v
		}
	}

	if raw := q.Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, fmt.Errorf("invalid startDate %q", raw)
		}
		params.StartDate = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, fmt.Errorf("invalid endDate %q", raw)
		}
		// The whole end day is included in the window.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		params.EndDate = &end
	}

	return params, nil
}
