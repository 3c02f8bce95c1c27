package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"

	"github.com/aturuang/backend/internal/middleware"
	"github.com/aturuang/backend/internal/models"
)

// SummaryService aggregates the ledger into day/week/month windows. Results
// are cached briefly in Redis; the ledger invalidates the cache on every
// mutation, so the TTL only bounds staleness across processes.
type SummaryService struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewSummaryService(db *sql.DB, redisClient *redis.Client) *SummaryService {
	viper.SetDefault("summary.cache_ttl", time.Minute)
	return &SummaryService{
		db:       db,
		redis:    redisClient,
		cacheTTL: viper.GetDuration("summary.cache_ttl"),
	}
}

func summaryCacheKey(tgID string) string {
	return fmt.Sprintf("summary:%s", tgID)
}

// Summarize computes the three-window summary relative to now. The day, week
// and month windows are computed independently; category and mood breakdowns
// cover the month window only.
func (s *SummaryService) Summarize(ctx context.Context, tgID string, now time.Time) (*models.Summary, error) {
	if cached := s.fromCache(ctx, tgID); cached != nil {
		return cached, nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7)) // week starts Monday
	weekEnd := weekStart.AddDate(0, 0, 6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	summary := &models.Summary{
		ByCategory: map[string]models.WindowStats{},
		ByMood:     map[string]int{},
	}

	var err error
	if summary.Today, err = s.windowStats(ctx, tgID, dayStart, dayStart); err != nil {
		return nil, fmt.Errorf("day window: %w", err)
	}
	if summary.Week, err = s.windowStats(ctx, tgID, weekStart, weekEnd); err != nil {
		return nil, fmt.Errorf("week window: %w", err)
	}
	if summary.Month, err = s.windowStats(ctx, tgID, monthStart, monthEnd); err != nil {
		return nil, fmt.Errorf("month window: %w", err)
	}

	if err := s.monthByCategory(ctx, tgID, monthStart, monthEnd, summary.ByCategory); err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	if err := s.monthByMood(ctx, tgID, monthStart, monthEnd, summary.ByMood); err != nil {
		return nil, fmt.Errorf("mood breakdown: %w", err)
	}

	s.toCache(ctx, tgID, summary)
	return summary, nil
}

func (s *SummaryService) windowStats(ctx context.Context, tgID string, from, to time.Time) (models.WindowStats, error) {
	var stats models.WindowStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE tg_id = $1 AND date >= $2 AND date <= $3`,
		tgID, from, to).Scan(&stats.Total, &stats.Count)
	return stats, err
}

func (s *SummaryService) monthByCategory(ctx context.Context, tgID string, from, to time.Time, out map[string]models.WindowStats) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(amount), COUNT(*)
		FROM expenses
		WHERE tg_id = $1 AND date >= $2 AND date <= $3
		GROUP BY category`,
		tgID, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var stats models.WindowStats
		if err := rows.Scan(&category, &stats.Total, &stats.Count); err != nil {
			return err
		}
		out[category] = stats
	}
	return rows.Err()
}

func (s *SummaryService) monthByMood(ctx context.Context, tgID string, from, to time.Time, out map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mood, COUNT(*)
		FROM expenses
		WHERE tg_id = $1 AND date >= $2 AND date <= $3 AND mood IS NOT NULL
		GROUP BY mood`,
		tgID, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var mood string
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return err
		}
		out[mood] = count
	}
	return rows.Err()
}

func (s *SummaryService) fromCache(ctx context.Context, tgID string) *models.Summary {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, summaryCacheKey(tgID)).Bytes()
	if err != nil {
		return nil
	}
	var summary models.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *SummaryService) toCache(ctx context.Context, tgID string, summary *models.Summary) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, summaryCacheKey(tgID), data, s.cacheTTL).Err(); err != nil {
		log.Printf("[SUMMARY] Failed to cache summary for %s: %v", tgID, err)
	}
}

// GetSummary serves the caller's expense summary
// @Summary Expense summary
// @Description Get expense summary: today/week/month totals, breakdown by category and mood
// @Tags expenses
// @Produce json
// @Success 200 {object} models.Summary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security Bearer
// @Router /expenses/summary [get]
func (s *SummaryService) GetSummary(w http.ResponseWriter, r *http.Request) {
	tgID, ok := middleware.TgIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	summary, err := s.Summarize(r.Context(), tgID, time.Now())
	if err != nil {
		log.Printf("[SUMMARY] Aggregation failed for account %s: %v", tgID, err)
		SendErrorResponse(w, "Failed to build summary", http.StatusInternalServerError, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, summary)
}
