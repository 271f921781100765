package models

import "time"

// Notification types used by the lifecycle services.
const (
	NotificationTypeOffer   = "OFFER"
	NotificationTypeProject = "PROJECT"
)

type Notification struct {
	ID        int               `json:"id"`
	UserID    int               `json:"user_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}
