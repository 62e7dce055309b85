package models

import "time"

// Notification is a per-recipient message. ProductID is set for stock alerts
// so they can be matched without parsing the message text.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	ProductID string    `json:"productId,omitempty"`
}
