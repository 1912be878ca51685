package models

import "time"

// SessionRecord is the persisted form of a browser session.
type SessionRecord struct {
	ID              string    `json:"id"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	User            string    `json:"user,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
