package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/aturuang/backend/internal/models"
)

const expenseColumns = "id, amount, item, category, place, with_person, mood, story, raw_message, tg_id, date, created_at"

// LedgerService owns all writes to the expense ledger. Every operation is
// scoped to one owning account; a record another account owns is
// indistinguishable from a record that does not exist.
type LedgerService struct {
	db    *sql.DB
	redis *redis.Client
}

func NewLedgerService(db *sql.DB, redisClient *redis.Client) *LedgerService {
	return &LedgerService{
		db:    db,
		redis: redisClient,
	}
}

// AppendBatch persists a batch of drafts atomically. Either every draft
// becomes a record or none does. Records receive fresh identities and share
// the raw message they were extracted from; insertion order follows draft
// order so created_at ordering matches extraction order.
func (s *LedgerService) AppendBatch(ctx context.Context, tgID, rawMessage string, drafts []models.ExpenseDraft) ([]models.Expense, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	expenses := make([]models.Expense, 0, len(drafts))
	for _, draft := range drafts {
		expense := models.Expense{
			Amount:     draft.Amount,
			Item:       draft.Item,
			Category:   draft.Category,
			Place:      draft.Place,
			WithPerson: draft.WithPerson,
			Mood:       draft.Mood,
			Story:      draft.Story,
			RawMessage: rawMessage,
			TgID:       tgID,
			Date:       models.Day(draft.Date),
		}
		expense.GenerateID()

		err := tx.QueryRowContext(ctx, `
			INSERT INTO expenses (id, amount, item, category, place, with_person, mood, story, raw_message, tg_id, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
			RETURNING created_at`,
			expense.ID, expense.Amount, expense.Item, expense.Category,
			expense.Place, expense.WithPerson, expense.Mood, expense.Story,
			expense.RawMessage, expense.TgID, expense.Date).Scan(&expense.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert expense: %w", err)
		}

		expenses = append(expenses, expense)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	s.invalidateSummary(ctx, tgID)
	log.Printf("[LEDGER] Appended %d expense(s) for account %s", len(expenses), tgID)
	return expenses, nil
}

// DeleteMostRecent removes the account's most recently created record and
// returns it. Most recent means latest created_at, not latest expense date.
func (s *LedgerService) DeleteMostRecent(ctx context.Context, tgID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM expenses
		WHERE id = (
			SELECT id FROM expenses
			WHERE tg_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)
		RETURNING `+expenseColumns, tgID)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNothingToUndo
	}
	if err != nil {
		return nil, fmt.Errorf("delete most recent: %w", err)
	}

	s.invalidateSummary(ctx, tgID)
	log.Printf("[LEDGER] Undid expense %s for account %s", expense.ID, tgID)
	return expense, nil
}

// GetByID fetches one record. Absent and foreign-owned records both resolve
// to ErrNotFound.
func (s *LedgerService) GetByID(ctx context.Context, tgID, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND tg_id = $2`, id, tgID)

	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// Recent returns the account's latest records by creation time.
func (s *LedgerService) Recent(ctx context.Context, tgID string, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE tg_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, tgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	return expenses, rows.Err()
}

func (s *LedgerService) invalidateSummary(ctx context.Context, tgID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, summaryCacheKey(tgID)).Err(); err != nil {
		log.Printf("[LEDGER] Failed to invalidate summary cache for %s: %v", tgID, err)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.Amount, &e.Item, &e.Category, &e.Place,
		&e.WithPerson, &e.Mood, &e.Story, &e.RawMessage, &e.TgID, &e.Date, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
