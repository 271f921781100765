package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"uslugihub/internal/models"
)

type memOfferStore struct {
	offers map[int]models.Offer
	nextID int

	projects       []models.Project
	acceptErr      error
	acceptRejected int
}

func newMemOfferStore() *memOfferStore {
	return &memOfferStore{offers: map[int]models.Offer{}, nextID: 1}
}

func (s *memOfferStore) CreateOffer(ctx context.Context, offer models.Offer) (models.Offer, error) {
	for _, o := range s.offers {
		if o.RequestID == offer.RequestID && o.CompanyID == offer.CompanyID && o.Status != models.OfferStatusWithdrawn {
			return models.Offer{}, models.ErrOfferAlreadyExists
		}
	}
	offer.ID = s.nextID
	s.nextID++
	offer.Status = models.OfferStatusPending
	offer.CreatedAt = time.Now()
	offer.ExpiresAt = offer.CreatedAt.Add(models.OfferTTL)
	s.offers[offer.ID] = offer
	return offer, nil
}

func (s *memOfferStore) GetOfferByID(ctx context.Context, id int) (models.Offer, error) {
	o, ok := s.offers[id]
	if !ok {
		return models.Offer{}, models.ErrOfferNotFound
	}
	return o, nil
}

func (s *memOfferStore) ListOffersByRequest(ctx context.Context, requestID int) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range s.offers {
		if o.RequestID == requestID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOfferStore) ListOffersByCompany(ctx context.Context, companyID int) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range s.offers {
		if o.CompanyID == companyID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOfferStore) CountLiveOffers(ctx context.Context, requestID int) (int, error) {
	count := 0
	for _, o := range s.offers {
		if o.RequestID == requestID && o.Status != models.OfferStatusWithdrawn {
			count++
		}
	}
	return count, nil
}

func (s *memOfferStore) HasLiveOffer(ctx context.Context, requestID, companyID int) (bool, error) {
	for _, o := range s.offers {
		if o.RequestID == requestID && o.CompanyID == companyID && o.Status != models.OfferStatusWithdrawn {
			return true, nil
		}
	}
	return false, nil
}

func (s *memOfferStore) AcceptOffer(ctx context.Context, offer models.Offer, ownerID int) (models.Project, int, error) {
	if s.acceptErr != nil {
		return models.Project{}, 0, s.acceptErr
	}
	current := s.offers[offer.ID]
	if current.Status != models.OfferStatusPending {
		return models.Project{}, 0, models.ErrOfferAlreadyAccepted
	}
	current.Status = models.OfferStatusAccepted
	s.offers[offer.ID] = current

	rejected := 0
	for id, o := range s.offers {
		if o.RequestID == offer.RequestID && o.ID != offer.ID && o.Status == models.OfferStatusPending {
			o.Status = models.OfferStatusRejected
			s.offers[id] = o
			rejected++
		}
	}
	project := models.Project{
		ID:        len(s.projects) + 1,
		RequestID: offer.RequestID,
		OwnerID:   ownerID,
		CompanyID: offer.CompanyID,
		Status:    models.ProjectStatusPending,
	}
	s.projects = append(s.projects, project)
	s.acceptRejected = rejected
	return project, rejected, nil
}

func (s *memOfferStore) UpdateStatus(ctx context.Context, id int, from, to string) error {
	o, ok := s.offers[id]
	if !ok {
		return models.ErrOfferNotFound
	}
	if o.Status != from {
		return models.ErrOfferAlreadyAccepted
	}
	o.Status = to
	s.offers[id] = o
	return nil
}

type stubCompanyStore struct {
	companies map[int]models.Company
}

func (s *stubCompanyStore) GetCompanyByID(ctx context.Context, id int) (models.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return models.Company{}, models.ErrCompanyNotFound
	}
	return c, nil
}

type recordingNotifier struct {
	emitted []models.Notification
}

func (n *recordingNotifier) Emit(userID int, ntype, title, message string, data map[string]string) {
	n.emitted = append(n.emitted, models.Notification{
		UserID: userID, Type: ntype, Title: title, Message: message, Data: data,
	})
}

func activeCompany(id, owner int) models.Company {
	return models.Company{
		ID:                 id,
		OwnerUserID:        owner,
		Name:               "Acme",
		IsActive:           true,
		VerificationStatus: models.VerificationVerified,
	}
}

func offerFixture(t *testing.T) (*OfferService, *memOfferStore, *stubRequestStore, *recordingNotifier) {
	t.Helper()
	offers := newMemOfferStore()
	requests := &stubRequestStore{req: openRequest()}
	companies := &stubCompanyStore{companies: map[int]models.Company{
		1: activeCompany(1, 20),
		2: activeCompany(2, 21),
	}}
	notifier := &recordingNotifier{}
	svc := &OfferService{
		OfferRepo:   offers,
		RequestRepo: requests,
		CompanyRepo: companies,
		Notifier:    notifier,
	}
	return svc, offers, requests, notifier
}

func validInput() CreateOfferInput {
	return CreateOfferInput{
		RequestID:     1,
		CompanyID:     1,
		ActingUserID:  20,
		Price:         5000,
		Currency:      "KZT",
		EstimatedDays: 5,
	}
}

func TestCreateOfferHappyPath(t *testing.T) {
	svc, _, requests, notifier := offerFixture(t)

	offer, err := svc.CreateOffer(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.Status != models.OfferStatusPending {
		t.Fatalf("expected pending offer, got %s", offer.Status)
	}
	if want := offer.CreatedAt.Add(models.OfferTTL); !offer.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, offer.ExpiresAt)
	}
	// First live offer moves the request to reviewing_offers.
	if requests.req.Status != models.RequestStatusReviewingOffers {
		t.Fatalf("expected reviewing_offers, got %s", requests.req.Status)
	}
	if len(notifier.emitted) != 1 || notifier.emitted[0].UserID != 10 {
		t.Fatalf("expected one notification to the request owner, got %v", notifier.emitted)
	}
}

func TestCreateOfferPreconditionOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input", func(t *testing.T) {
		svc, _, _, _ := offerFixture(t)
		input := validInput()
		input.Price = 0
		if _, err := svc.CreateOffer(ctx, input); !errors.Is(err, models.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("company missing", func(t *testing.T) {
		svc, _, _, _ := offerFixture(t)
		input := validInput()
		input.CompanyID = 9
		if _, err := svc.CreateOffer(ctx, input); !errors.Is(err, models.ErrCompanyNotFound) {
			t.Fatalf("expected ErrCompanyNotFound, got %v", err)
		}
	})

	t.Run("acting user does not own company", func(t *testing.T) {
		svc, _, _, _ := offerFixture(t)
		input := validInput()
		input.ActingUserID = 99
		if _, err := svc.CreateOffer(ctx, input); !errors.Is(err, models.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("company inactive", func(t *testing.T) {
		svc, _, _, _ := offerFixture(t)
		inactive := activeCompany(1, 20)
		inactive.IsActive = false
		svc.CompanyRepo.(*stubCompanyStore).companies[1] = inactive
		if _, err := svc.CreateOffer(ctx, validInput()); !errors.Is(err, models.ErrCompanyInactive) {
			t.Fatalf("expected ErrCompanyInactive, got %v", err)
		}
	})

	t.Run("request closed", func(t *testing.T) {
		svc, _, requests, _ := offerFixture(t)
		requests.req.Status = models.RequestStatusCompleted
		if _, err := svc.CreateOffer(ctx, validInput()); !errors.Is(err, models.ErrRequestNotOpen) {
			t.Fatalf("expected ErrRequestNotOpen, got %v", err)
		}
	})

	t.Run("duplicate live offer", func(t *testing.T) {
		svc, _, _, _ := offerFixture(t)
		if _, err := svc.CreateOffer(ctx, validInput()); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if _, err := svc.CreateOffer(ctx, validInput()); !errors.Is(err, models.ErrOfferAlreadyExists) {
			t.Fatalf("expected ErrOfferAlreadyExists, got %v", err)
		}
	})

	t.Run("verification required", func(t *testing.T) {
		svc, _, requests, _ := offerFixture(t)
		requests.req.RequireVerification = true
		unverified := activeCompany(1, 20)
		unverified.VerificationStatus = models.VerificationPending
		svc.CompanyRepo.(*stubCompanyStore).companies[1] = unverified
		if _, err := svc.CreateOffer(ctx, validInput()); !errors.Is(err, models.ErrCompanyNotVerified) {
			t.Fatalf("expected ErrCompanyNotVerified, got %v", err)
		}
	})
}

func TestWithdrawThenResubmitSucceeds(t *testing.T) {
	svc, _, _, _ := offerFixture(t)
	ctx := context.Background()

	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.WithdrawOffer(ctx, offer.ID, 20); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if _, err := svc.CreateOffer(ctx, validInput()); err != nil {
		t.Fatalf("re-submission after withdrawal must succeed, got %v", err)
	}
}

func TestWithdrawForbiddenForOtherUsers(t *testing.T) {
	svc, _, _, _ := offerFixture(t)
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.WithdrawOffer(ctx, offer.ID, 10); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptOfferCreatesProjectAndRejectsLosers(t *testing.T) {
	svc, offers, _, notifier := offerFixture(t)
	ctx := context.Background()

	o1, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("offer 1 failed: %v", err)
	}
	second := validInput()
	second.CompanyID = 2
	second.ActingUserID = 21
	o2, err := svc.CreateOffer(ctx, second)
	if err != nil {
		t.Fatalf("offer 2 failed: %v", err)
	}

	project, err := svc.AcceptOffer(ctx, o1.ID, 10)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if project.Status != models.ProjectStatusPending || project.CompanyID != 1 || project.OwnerID != 10 {
		t.Fatalf("unexpected project %+v", project)
	}
	if got := offers.offers[o1.ID].Status; got != models.OfferStatusAccepted {
		t.Fatalf("winner status = %s", got)
	}
	if got := offers.offers[o2.ID].Status; got != models.OfferStatusRejected {
		t.Fatalf("loser status = %s", got)
	}
	if offers.acceptRejected != 1 {
		t.Fatalf("expected exactly 1 auto-rejection, got %d", offers.acceptRejected)
	}
	if len(notifier.emitted) == 0 {
		t.Fatal("expected winner notification")
	}
}

func TestAcceptOfferOnlyOwnerMayAccept(t *testing.T) {
	svc, _, _, _ := offerFixture(t)
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.AcceptOffer(ctx, offer.ID, 99); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptOfferSecondAcceptLoses(t *testing.T) {
	svc, _, _, _ := offerFixture(t)
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.AcceptOffer(ctx, offer.ID, 10); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := svc.AcceptOffer(ctx, offer.ID, 10); !errors.Is(err, models.ErrOfferAlreadyAccepted) {
		t.Fatalf("expected ErrOfferAlreadyAccepted, got %v", err)
	}
}

func TestAcceptOfferExpired(t *testing.T) {
	svc, offers, _, _ := offerFixture(t)
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stale := offers.offers[offer.ID]
	stale.ExpiresAt = time.Now().Add(-time.Hour)
	offers.offers[offer.ID] = stale

	if _, err := svc.AcceptOffer(ctx, offer.ID, 10); !errors.Is(err, models.ErrOfferExpired) {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
	if got := offers.offers[offer.ID].Status; got != models.OfferStatusExpired {
		t.Fatalf("expected lazy expiry mark, status = %s", got)
	}
}

func TestRejectOfferByOwner(t *testing.T) {
	svc, offers, _, _ := offerFixture(t)
	ctx := context.Background()
	offer, err := svc.CreateOffer(ctx, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.RejectOffer(ctx, offer.ID, 99); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := svc.RejectOffer(ctx, offer.ID, 10); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if got := offers.offers[offer.ID].Status; got != models.OfferStatusRejected {
		t.Fatalf("status = %s", got)
	}
}
