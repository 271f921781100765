package models

import (
	"time"
)

// Service request statuses.
const (
	RequestStatusDraft           = "draft"
	RequestStatusPending         = "pending"
	RequestStatusActive          = "active"
	RequestStatusMatching        = "matching"
	RequestStatusReviewingOffers = "reviewing_offers"
	RequestStatusAccepted        = "accepted"
	RequestStatusInProgress      = "in_progress"
	RequestStatusCompleted       = "completed"
	RequestStatusCancelled       = "cancelled"
	RequestStatusExpired         = "expired"
)

type ServiceRequest struct {
	ID                  int        `json:"id"`
	UserID              int        `json:"user_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	CategoryID          int        `json:"category_id"`
	CategoryName        string     `json:"category_name,omitempty"`
	CountryID           int        `json:"country_id"`
	CityID              int        `json:"city_id"`
	Tags                []string   `json:"tags,omitempty"`
	Status              string     `json:"status"`
	IsActive            bool       `json:"is_active"`
	RequireVerification bool       `json:"require_verification"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`

	Offers []Offer `json:"offers,omitempty"`
}

// RequestOpenForOffers reports whether a request in the given status still
// accepts new offers.
func RequestOpenForOffers(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusActive, RequestStatusMatching, RequestStatusReviewingOffers:
		return true
	}
	return false
}
