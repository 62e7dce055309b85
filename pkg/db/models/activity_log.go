package models

import (
	"time"

	"github.com/angelmondragon/cellar-backend/pkg/enums"
)

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	UserRole  enums.Role `json:"userRole"`
	Action    string     `json:"action"`
	Details   string     `json:"details"`
	Timestamp time.Time  `json:"timestamp"`
}
