package services

import (
	"context"
	"strings"

	"uslugihub/internal/models"
)

type RequestStore interface {
	GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error)
	CreateRequest(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Deactivate(ctx context.Context, id int) error
}

type RequestOfferLister interface {
	ListOffersByRequest(ctx context.Context, requestID int) ([]models.Offer, error)
}

type RequestService struct {
	RequestRepo RequestStore
	OfferRepo   RequestOfferLister
}

func (s *RequestService) CreateRequest(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	if strings.TrimSpace(req.Title) == "" || req.CategoryID == 0 {
		return models.ServiceRequest{}, models.ErrInvalidInput
	}
	return s.RequestRepo.CreateRequest(ctx, req)
}

// GetRequest returns the request; submitted offers are attached only for the
// owner and admins.
func (s *RequestService) GetRequest(ctx context.Context, requestID, actingUserID int, role string) (models.ServiceRequest, error) {
	req, err := s.RequestRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	if req.UserID == actingUserID || role == RoleAdmin {
		offers, err := s.OfferRepo.ListOffersByRequest(ctx, requestID)
		if err != nil {
			return models.ServiceRequest{}, err
		}
		req.Offers = offers
	}
	return req, nil
}

// CancelRequest soft-deactivates an open request; requests are never hard
// deleted.
func (s *RequestService) CancelRequest(ctx context.Context, requestID, actingUserID int, role string) error {
	req, err := s.RequestRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.UserID != actingUserID && role != RoleAdmin {
		return models.ErrForbidden
	}
	if !models.RequestOpenForOffers(req.Status) && req.Status != models.RequestStatusDraft {
		return models.ErrRequestNotOpen
	}
	if err := s.RequestRepo.UpdateStatus(ctx, requestID, models.RequestStatusCancelled); err != nil {
		return err
	}
	return s.RequestRepo.Deactivate(ctx, requestID)
}
