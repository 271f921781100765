package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"uslugihub/internal/models"
)

type OfferStore interface {
	CreateOffer(ctx context.Context, offer models.Offer) (models.Offer, error)
	GetOfferByID(ctx context.Context, id int) (models.Offer, error)
	ListOffersByRequest(ctx context.Context, requestID int) ([]models.Offer, error)
	ListOffersByCompany(ctx context.Context, companyID int) ([]models.Offer, error)
	CountLiveOffers(ctx context.Context, requestID int) (int, error)
	HasLiveOffer(ctx context.Context, requestID, companyID int) (bool, error)
	AcceptOffer(ctx context.Context, offer models.Offer, ownerID int) (models.Project, int, error)
	UpdateStatus(ctx context.Context, id int, from, to string) error
}

type OfferRequestStore interface {
	GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type CompanyStore interface {
	GetCompanyByID(ctx context.Context, id int) (models.Company, error)
}

// AttachmentStorage uploads offer attachments and returns a public URL.
type AttachmentStorage interface {
	Upload(data []byte, fileName, folder string) (string, error)
}

type CreateOfferInput struct {
	RequestID     int
	CompanyID     int
	ActingUserID  int
	Price         float64
	Currency      string
	EstimatedDays int
	Description   string
	Attachments   []models.OfferAttachment
}

type OfferService struct {
	OfferRepo   OfferStore
	RequestRepo OfferRequestStore
	CompanyRepo CompanyStore
	Notifier    Notifier
	Storage     AttachmentStorage // optional
	Cache       MatchCache        // optional
	ErrorLog    *log.Logger
}

// CreateOffer validates the precondition chain in order and inserts a
// pending offer. The first live offer on a request moves it to
// reviewing_offers.
func (s *OfferService) CreateOffer(ctx context.Context, input CreateOfferInput) (models.Offer, error) {
	if input.Price <= 0 || input.EstimatedDays <= 0 {
		return models.Offer{}, models.ErrInvalidInput
	}

	company, err := s.CompanyRepo.GetCompanyByID(ctx, input.CompanyID)
	if err != nil {
		return models.Offer{}, err
	}
	if company.OwnerUserID != input.ActingUserID {
		return models.Offer{}, models.ErrForbidden
	}
	if !company.IsActive {
		return models.Offer{}, models.ErrCompanyInactive
	}

	request, err := s.RequestRepo.GetRequestByID(ctx, input.RequestID)
	if err != nil {
		return models.Offer{}, err
	}
	if !request.IsActive {
		return models.Offer{}, models.ErrRequestNotFound
	}
	if !models.RequestOpenForOffers(request.Status) {
		return models.Offer{}, models.ErrRequestNotOpen
	}

	exists, err := s.OfferRepo.HasLiveOffer(ctx, input.RequestID, input.CompanyID)
	if err != nil {
		return models.Offer{}, err
	}
	if exists {
		return models.Offer{}, models.ErrOfferAlreadyExists
	}

	if request.RequireVerification && company.VerificationStatus != models.VerificationVerified {
		return models.Offer{}, models.ErrCompanyNotVerified
	}

	attachments, err := s.uploadAttachments(input.Attachments)
	if err != nil {
		return models.Offer{}, err
	}

	offer, err := s.OfferRepo.CreateOffer(ctx, models.Offer{
		RequestID:     input.RequestID,
		CompanyID:     input.CompanyID,
		Price:         input.Price,
		Currency:      input.Currency,
		EstimatedDays: input.EstimatedDays,
		Description:   input.Description,
		Attachments:   attachments,
	})
	if err != nil {
		return models.Offer{}, err
	}

	liveCount, err := s.OfferRepo.CountLiveOffers(ctx, offer.RequestID)
	if err == nil && liveCount == 1 && request.Status != models.RequestStatusReviewingOffers {
		if err := s.RequestRepo.UpdateStatus(ctx, offer.RequestID, models.RequestStatusReviewingOffers); err != nil {
			return models.Offer{}, err
		}
	}

	s.invalidateCache(ctx, offer.RequestID)
	s.Notifier.Emit(request.UserID, models.NotificationTypeOffer,
		"New offer received",
		fmt.Sprintf("%s sent an offer of %.2f %s for your request", company.Name, offer.Price, offer.Currency),
		offerData(offer))
	return offer, nil
}

// AcceptOffer accepts a pending offer on behalf of the request owner. The
// repository runs the acceptance, loser rejection and project creation as one
// transaction; losing a concurrent race surfaces as ErrOfferAlreadyAccepted.
func (s *OfferService) AcceptOffer(ctx context.Context, offerID, actingUserID int) (models.Project, error) {
	offer, err := s.OfferRepo.GetOfferByID(ctx, offerID)
	if err != nil {
		return models.Project{}, err
	}
	request, err := s.RequestRepo.GetRequestByID(ctx, offer.RequestID)
	if err != nil {
		return models.Project{}, err
	}
	if request.UserID != actingUserID {
		return models.Project{}, models.ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return models.Project{}, models.ErrOfferAlreadyAccepted
	}
	if !offer.ExpiresAt.After(time.Now()) {
		// Lazy expiry: mark the offer on first touch past its deadline.
		if err := s.OfferRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusPending, models.OfferStatusExpired); err != nil {
			s.logf("offer %d: expiry mark failed: %v", offer.ID, err)
		}
		return models.Project{}, models.ErrOfferExpired
	}

	project, rejected, err := s.OfferRepo.AcceptOffer(ctx, offer, request.UserID)
	if err != nil {
		return models.Project{}, err
	}

	s.invalidateCache(ctx, offer.RequestID)
	if company, cerr := s.CompanyRepo.GetCompanyByID(ctx, offer.CompanyID); cerr == nil {
		s.Notifier.Emit(company.OwnerUserID, models.NotificationTypeOffer,
			"Offer accepted",
			fmt.Sprintf("Your offer for %q was accepted, a project has been created", request.Title),
			projectData(project))
	}
	if rejected > 0 {
		s.logf("offer %d accepted, %d competing offers auto-rejected", offer.ID, rejected)
	}
	return project, nil
}

// WithdrawOffer is the submitting company's pending -> withdrawn move.
func (s *OfferService) WithdrawOffer(ctx context.Context, offerID, actingUserID int) error {
	offer, err := s.OfferRepo.GetOfferByID(ctx, offerID)
	if err != nil {
		return err
	}
	company, err := s.CompanyRepo.GetCompanyByID(ctx, offer.CompanyID)
	if err != nil {
		return err
	}
	if company.OwnerUserID != actingUserID {
		return models.ErrForbidden
	}
	if err := s.OfferRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusPending, models.OfferStatusWithdrawn); err != nil {
		return err
	}
	s.invalidateCache(ctx, offer.RequestID)
	if request, rerr := s.RequestRepo.GetRequestByID(ctx, offer.RequestID); rerr == nil {
		s.Notifier.Emit(request.UserID, models.NotificationTypeOffer,
			"Offer withdrawn",
			fmt.Sprintf("%s withdrew their offer on %q", company.Name, request.Title),
			offerData(offer))
	}
	return nil
}

// RejectOffer is the request owner's pending -> rejected move.
func (s *OfferService) RejectOffer(ctx context.Context, offerID, actingUserID int) error {
	offer, err := s.OfferRepo.GetOfferByID(ctx, offerID)
	if err != nil {
		return err
	}
	request, err := s.RequestRepo.GetRequestByID(ctx, offer.RequestID)
	if err != nil {
		return err
	}
	if request.UserID != actingUserID {
		return models.ErrForbidden
	}
	if err := s.OfferRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusPending, models.OfferStatusRejected); err != nil {
		return err
	}
	s.invalidateCache(ctx, offer.RequestID)
	if company, cerr := s.CompanyRepo.GetCompanyByID(ctx, offer.CompanyID); cerr == nil {
		s.Notifier.Emit(company.OwnerUserID, models.NotificationTypeOffer,
			"Offer rejected",
			fmt.Sprintf("Your offer on %q was rejected", request.Title),
			offerData(offer))
	}
	return nil
}

func (s *OfferService) ListByRequest(ctx context.Context, requestID int) ([]models.Offer, error) {
	return s.OfferRepo.ListOffersByRequest(ctx, requestID)
}

func (s *OfferService) ListByCompany(ctx context.Context, companyID int) ([]models.Offer, error) {
	return s.OfferRepo.ListOffersByCompany(ctx, companyID)
}

func (s *OfferService) uploadAttachments(attachments []models.OfferAttachment) ([]string, error) {
	if len(attachments) == 0 || s.Storage == nil {
		return nil, nil
	}
	urls := make([]string, 0, len(attachments))
	for _, att := range attachments {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			return nil, models.ErrInvalidInput
		}
		url, err := s.Storage.Upload(data, att.FileName, "offers")
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *OfferService) invalidateCache(ctx context.Context, requestID int) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, requestID)
	}
}

func (s *OfferService) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

func offerData(o models.Offer) map[string]string {
	return map[string]string{
		"offer_id":   fmt.Sprint(o.ID),
		"request_id": fmt.Sprint(o.RequestID),
	}
}

func projectData(p models.Project) map[string]string {
	return map[string]string{
		"project_id": fmt.Sprint(p.ID),
		"request_id": fmt.Sprint(p.RequestID),
	}
}
