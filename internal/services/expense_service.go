package services

import (
	"context"
	"time"

	"github.com/aturuang/backend/internal/interpreter"
	"github.com/aturuang/backend/internal/models"
)

// ExpenseService ties interpretation to the ledger: one chat message in,
// zero or more persisted records out.
type ExpenseService struct {
	interpreter *interpreter.Service
	ledger      *LedgerService
}

func NewExpenseService(interp *interpreter.Service, ledger *LedgerService) *ExpenseService {
	return &ExpenseService{
		interpreter: interp,
		ledger:      ledger,
	}
}

// RecordMessage interprets a free-text message and appends the resulting
// drafts atomically. A non-empty diagnostic means interpretation failed and
// nothing was stored; empty drafts with an empty diagnostic means the message
// simply carried no expense.
func (s *ExpenseService) RecordMessage(ctx context.Context, tgID, message string, now time.Time) ([]models.Expense, string, error) {
	drafts, diagnostic := s.interpreter.Interpret(ctx, message, now)
	if diagnostic != "" {
		return nil, diagnostic, nil
	}
	if len(drafts) == 0 {
		return nil, "", nil
	}

	expenses, err := s.ledger.AppendBatch(ctx, tgID, message, drafts)
	if err != nil {
		return nil, "", err
	}
	return expenses, "", nil
}

// Undo removes the account's most recently created record.
func (s *ExpenseService) Undo(ctx context.Context, tgID string) (*models.Expense, error) {
	return s.ledger.DeleteMostRecent(ctx, tgID)
}

// Recent returns the account's latest records by creation time.
func (s *ExpenseService) Recent(ctx context.Context, tgID string, limit int) ([]models.Expense, error) {
	return s.ledger.Recent(ctx, tgID, limit)
}
