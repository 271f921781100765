package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecord  = errors.New("models: no matching record found")
	ErrForbidden = errors.New("models: forbidden")

	ErrRequestNotFound    = errors.New("service request not found")
	ErrRequestNotOpen     = errors.New("service request is not open for offers")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyInactive    = errors.New("company is not active")
	ErrCompanyNotVerified = errors.New("company is not verified")

	ErrOfferNotFound        = errors.New("offer not found")
	ErrOfferAlreadyExists   = errors.New("company already has a live offer on this request")
	ErrOfferExpired         = errors.New("offer has expired")
	ErrOfferAlreadyAccepted = errors.New("offer is no longer pending")

	ErrProjectNotFound      = errors.New("project not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidInput = errors.New("invalid input")
)

// InvalidTransitionError is returned when a status change is not listed in
// the entity's transition table.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}
