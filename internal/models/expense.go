package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Day is a calendar day. It marshals as YYYY-MM-DD, never as a full
// timestamp, and maps to a DATE column.
type Day time.Time

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format("2006-01-02"))
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = Day(t)
	return nil
}

func (d Day) Value() (driver.Value, error) {
	return time.Time(d), nil
}

func (d *Day) Scan(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("unsupported date type %T", value)
	}
	*d = Day(t)
	return nil
}

// Expense represents a single recorded expense
// @Description Expense record structure
type Expense struct {
	ID         string    `json:"id" example:"6f1c2a9e-0b7d-4f7b-9a3e-2f8c1d5e6a70"` // Record ID
	Amount     int64     `json:"amount" example:"20000"`                            // Amount in smallest currency unit
	Item       string    `json:"item" example:"kopi"`                               // Item description
	Category   string    `json:"category" example:"coffee"`                         // One of the closed category set
	Place      *string   `json:"place" example:"starbucks"`                         // Purchase location, if mentioned
	WithPerson *string   `json:"withPerson" example:"temen"`                        // Companion, if mentioned
	Mood       *string   `json:"mood" example:"happy"`                              // Detected mood, if any
	Story      *string   `json:"story" example:"seru ngobrol"`                      // Emotional/causal reasoning
	RawMessage string    `json:"rawMessage" example:"kopi 35k di starbucks"`        // Original chat message
	TgID       string    `json:"tgId" example:"123456789"`                          // Owning account
	Date       Day       `json:"date" swaggertype:"string" example:"2024-02-08"`    // Calendar day of the expense
	CreatedAt  time.Time `json:"createdAt"`                                         // Creation timestamp
}

// ExpenseDraft is an unpersisted expense candidate produced by interpretation,
// pending ledger append. Same shape as Expense minus identity fields.
type ExpenseDraft struct {
	Amount     int64
	Item       string
	Category   string
	Place      *string
	WithPerson *string
	Mood       *string
	Story      *string
	Date       time.Time
}

// GenerateID assigns a new UUID if the record does not have one yet.
func (e *Expense) GenerateID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"20"`
	Total      int64 `json:"total" example:"42"`
	TotalPages int64 `json:"totalPages" example:"3"`
}

// WindowStats holds the total and count for one summary window.
type WindowStats struct {
	Total int64 `json:"total" example:"150000"`
	Count int   `json:"count" example:"3"`
}

// Summary is the day/week/month aggregation payload.
// @Description Expense summary structure
type Summary struct {
	Today      WindowStats            `json:"today"`
	Week       WindowStats            `json:"week"`
	Month      WindowStats            `json:"month"`
	ByCategory map[string]WindowStats `json:"byCategory"`
	ByMood     map[string]int         `json:"byMood"`
}
