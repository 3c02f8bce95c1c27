package models

import "time"

// User represents an account identified by its Telegram ID. Dashboard
// credentials (email + hashed password) are optional until the user registers
// API access. The plain Password field is the bot-set dashboard password used
// only to verify identity during registration.
type User struct {
	ID             int        `json:"-"`
	TgID           string     `json:"tgId" example:"123456789"`
	Name           *string    `json:"name" example:"Hanif"`
	CustomID       *string    `json:"customId" example:"hanif"`
	Email          *string    `json:"email" example:"user@example.com"`
	Password       *string    `json:"-"`
	HashedPassword *string    `json:"-"`
	Theme          string     `json:"theme" example:"dark"`
	LastSeen       *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
}
