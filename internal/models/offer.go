package models

import "time"

// Offer statuses. Pending is the only non-terminal state.
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusWithdrawn = "withdrawn"
	OfferStatusExpired   = "expired"
)

// OfferTTL is how long a freshly created offer stays acceptable.
const OfferTTL = 7 * 24 * time.Hour

type Offer struct {
	ID            int        `json:"id"`
	RequestID     int        `json:"request_id"`
	CompanyID     int        `json:"company_id"`
	Price         float64    `json:"price"`
	Currency      string     `json:"currency"`
	EstimatedDays int        `json:"estimated_days"`
	Description   string     `json:"description,omitempty"`
	Attachments   []string   `json:"attachments,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// OfferAttachment carries an inline file upload for an offer.
type OfferAttachment struct {
	FileName string `json:"file_name"`
	Data     string `json:"data"` // base64
}
