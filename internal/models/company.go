package models

import "time"

// Company verification statuses.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// CompanyService is one service a company advertises.
type CompanyService struct {
	ID          int      `json:"id"`
	CompanyID   int      `json:"company_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type Company struct {
	ID                 int              `json:"id"`
	OwnerUserID        int              `json:"owner_user_id"`
	Name               string           `json:"name"`
	CountryID          int              `json:"country_id"`
	CityID             int              `json:"city_id"`
	VerificationStatus string           `json:"verification_status"`
	IsActive           bool             `json:"is_active"`
	Services           []CompanyService `json:"services,omitempty"`
	AverageRating      float64          `json:"average_rating"`
	ReviewCount        int              `json:"review_count"`
	ProjectsCompleted  int              `json:"projects_completed_count"`
	CreatedAt          time.Time        `json:"created_at"`
}
