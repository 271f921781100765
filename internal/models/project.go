package models

import "time"

// Project statuses.
const (
	ProjectStatusPending   = "pending"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	ID        int        `json:"id"`
	RequestID int        `json:"request_id"`
	OwnerID   int        `json:"owner_id"`
	CompanyID int        `json:"company_id"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// CompanyOwnerID is joined in for ownership checks and notifications.
	CompanyOwnerID int `json:"-"`
}
