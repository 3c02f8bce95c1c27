package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/aturuang/backend/internal/config"
	"github.com/aturuang/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Service converts one raw chat message plus a reference date into an ordered
// list of expense drafts. The linguistic work is delegated to a ChatProvider;
// the service owns prompt construction and output validation. Provider and
// schema failures degrade to an empty draft list with a diagnostic string,
// never an error that crosses this boundary.
type Service struct {
	provider        ChatProvider
	validator       *validator.Validate
	storySimilarity float64
}

func NewService(provider ChatProvider) *Service {
	viper.SetDefault("interpreter.story_similarity", config.DefaultStorySimilarity)
	return &Service{
		provider:        provider,
		validator:       validator.New(),
		storySimilarity: viper.GetFloat64("interpreter.story_similarity"),
	}
}

// flexAmount decodes a provider amount that may arrive as a JSON number or as
// a suffixed string literal ("20k"). Either way it resolves to a non-negative
// integer in the smallest currency unit. set distinguishes an explicit amount
// from a payload that omitted the key; a missing amount must never read as
// zero rupiah.
type flexAmount struct {
	value int64
	set   bool
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := config.ParseAmount(s)
		if err != nil {
			return err
		}
		a.value = v
		a.set = true
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f < 0 {
		return fmt.Errorf("negative amount")
	}
	a.value = int64(math.Floor(f + 0.5))
	a.set = true
	return nil
}

// rawDraft is the untrusted per-expense shape of the provider payload.
type rawDraft struct {
	Amount     flexAmount `json:"amount"`
	Item       string     `json:"item" validate:"required"`
	Category   string     `json:"category" validate:"required"`
	Place      *string    `json:"place"`
	WithPerson *string    `json:"withPerson"`
	Mood       *string    `json:"mood"`
	Story      *string    `json:"story"`
	Date       string     `json:"date" validate:"required,datetime=2006-01-02"`
}

type rawPayload struct {
	Expenses []rawDraft `json:"expenses"`
}

// Interpret runs the message through the provider and validates the result.
// The diagnostic is empty on success; a non-empty diagnostic with zero drafts
// means interpretation failed, as opposed to a message that simply carries no
// expense. referenceDate is supplied by the caller, never read from the
// clock here.
func (s *Service) Interpret(ctx context.Context, message string, referenceDate time.Time) ([]models.ExpenseDraft, string) {
	if strings.TrimSpace(message) == "" {
		return nil, ""
	}

	today := referenceDate.Format(dateLayout)
	yesterday := referenceDate.AddDate(0, 0, -1).Format(dateLayout)

	content, err := s.provider.Complete(ctx, systemPrompt, buildUserMessage(message, today, yesterday))
	if err != nil {
		log.Printf("[INTERPRET] Provider call failed: %v", err)
		return nil, fmt.Sprintf("%v: %v", models.ErrProvider, err)
	}

	var payload rawPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		log.Printf("[INTERPRET] Undecodable provider payload: %v", err)
		return nil, fmt.Sprintf("%v: %v", models.ErrSchema, err)
	}

	if len(payload.Expenses) == 0 {
		return nil, ""
	}

	drafts := make([]models.ExpenseDraft, 0, len(payload.Expenses))
	for i, raw := range payload.Expenses {
		draft, err := s.validateDraft(raw)
		if err != nil {
			// One bad draft poisons the whole payload: partial extraction
			// must never reach the ledger.
			log.Printf("[INTERPRET] Draft %d failed schema check: %v", i, err)
			return nil, fmt.Sprintf("%v: draft %d: %v", models.ErrSchema, i, err)
		}
		drafts = append(drafts, draft)
	}

	return drafts, ""
}

func (s *Service) validateDraft(raw rawDraft) (models.ExpenseDraft, error) {
	if err := s.validator.Struct(&raw); err != nil {
		return models.ExpenseDraft{}, err
	}

	if !raw.Amount.set {
		return models.ExpenseDraft{}, fmt.Errorf("missing amount")
	}

	item := strings.TrimSpace(raw.Item)
	if item == "" {
		return models.ExpenseDraft{}, fmt.Errorf("empty item")
	}

	date, err := time.Parse(dateLayout, raw.Date)
	if err != nil {
		return models.ExpenseDraft{}, fmt.Errorf("invalid date %q: %w", raw.Date, err)
	}

	// Closed-enum coercion at the trust boundary: an unknown category
	// becomes "other", an unknown mood becomes no mood.
	category := strings.ToLower(strings.TrimSpace(raw.Category))
	if !config.IsCategory(category) {
		category = "other"
	}

	mood := normalizeOptional(raw.Mood)
	if mood != nil {
		lowered := strings.ToLower(*mood)
		if !config.IsMood(lowered) {
			mood = nil
		} else {
			mood = &lowered
		}
	}

	story := normalizeOptional(raw.Story)
	if story != nil && s.storyRestatesItem(item, *story) {
		story = nil
	}

	return models.ExpenseDraft{
		Amount:     raw.Amount.value,
		Item:       item,
		Category:   category,
		Place:      normalizeOptional(raw.Place),
		WithPerson: normalizeOptional(raw.WithPerson),
		Mood:       mood,
		Story:      story,
		Date:       date,
	}, nil
}

// normalizeOptional maps missing and blank strings to nil so optional fields
// are never stored as empty strings.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// storyRestatesItem reports whether the story is a near-duplicate of the item
// description: the share of story tokens already present in the item must
// reach the configured threshold.
func (s *Service) storyRestatesItem(item, story string) bool {
	itemTokens := tokenize(item)
	storyTokens := tokenize(story)
	if len(storyTokens) == 0 {
		return true
	}

	itemSet := make(map[string]bool, len(itemTokens))
	for _, tok := range itemTokens {
		itemSet[tok] = true
	}

	overlap := 0
	for _, tok := range storyTokens {
		if itemSet[tok] {
			overlap++
		}
	}

	return float64(overlap)/float64(len(storyTokens)) >= s.storySimilarity
}

func tokenize(v string) []string {
	return strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
