package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"uslugihub/internal/models"
)

type stubRequestStore struct {
	req       models.ServiceRequest
	getErr    error
	statusSet []string
}

func (s *stubRequestStore) GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	if s.getErr != nil {
		return models.ServiceRequest{}, s.getErr
	}
	return s.req, nil
}

func (s *stubRequestStore) UpdateStatus(ctx context.Context, id int, status string) error {
	s.statusSet = append(s.statusSet, status)
	s.req.Status = status
	return nil
}

type stubCandidateStore struct {
	companies []models.Company
	gotLimit  int
}

func (s *stubCandidateStore) ListCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]models.Company, error) {
	s.gotLimit = limit
	if len(s.companies) > limit {
		return s.companies[:limit], nil
	}
	return s.companies, nil
}

func openRequest() models.ServiceRequest {
	return models.ServiceRequest{
		ID:           1,
		UserID:       10,
		CategoryName: "Plumbing",
		CountryID:    7,
		CityID:       42,
		Status:       models.RequestStatusActive,
		IsActive:     true,
	}
}

func TestMatchForbiddenForStrangers(t *testing.T) {
	svc := &MatchingService{
		RequestRepo: &stubRequestStore{req: openRequest()},
		CompanyRepo: &stubCandidateStore{},
	}
	_, err := svc.Match(context.Background(), 1, 99, "user")
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMatchAdminMayMatchAnyRequest(t *testing.T) {
	requests := &stubRequestStore{req: openRequest()}
	svc := &MatchingService{RequestRepo: requests, CompanyRepo: &stubCandidateStore{}}
	if _, err := svc.Match(context.Background(), 1, 99, RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMatchNotFoundPassedThrough(t *testing.T) {
	svc := &MatchingService{
		RequestRepo: &stubRequestStore{getErr: models.ErrRequestNotFound},
		CompanyRepo: &stubCandidateStore{},
	}
	_, err := svc.Match(context.Background(), 1, 10, "user")
	if !errors.Is(err, models.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestMatchRanksTruncatesAndMarksRequest(t *testing.T) {
	var companies []models.Company
	// 15 candidates in the same country, a few in the same city that must
	// rank on top regardless of insertion position.
	for i := 0; i < 15; i++ {
		c := models.Company{ID: i + 1, CountryID: 7, CityID: 100 + i}
		if i%5 == 4 {
			c.CityID = 42
		}
		companies = append(companies, c)
	}
	requests := &stubRequestStore{req: openRequest()}
	candidates := &stubCandidateStore{companies: companies}
	svc := &MatchingService{RequestRepo: requests, CompanyRepo: candidates}

	resp, err := svc.Match(context.Background(), 1, 10, "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidates.gotLimit != 20 {
		t.Fatalf("expected candidate cap 20, got %d", candidates.gotLimit)
	}
	if len(resp.Matches) != 10 {
		t.Fatalf("expected 10 results, got %d", len(resp.Matches))
	}
	if resp.TotalMatches != 15 {
		t.Fatalf("expected totalMatches 15, got %d", resp.TotalMatches)
	}
	for i := 0; i < 3; i++ {
		if resp.Matches[i].MatchScore != 30 {
			t.Fatalf("expected city matches first, got score %d at rank %d", resp.Matches[i].MatchScore, i)
		}
	}
	if len(requests.statusSet) != 1 || requests.statusSet[0] != models.RequestStatusMatching {
		t.Fatalf("expected request to move to matching, got %v", requests.statusSet)
	}
}

func TestMatchTiesKeepInsertionOrder(t *testing.T) {
	var companies []models.Company
	for i := 0; i < 5; i++ {
		companies = append(companies, models.Company{ID: i + 1, CountryID: 7})
	}
	svc := &MatchingService{
		RequestRepo: &stubRequestStore{req: openRequest()},
		CompanyRepo: &stubCandidateStore{companies: companies},
	}
	resp, err := svc.Match(context.Background(), 1, 10, "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, m := range resp.Matches {
		if m.ID != i+1 {
			t.Fatalf("tie order broken: position %d holds company %d", i, m.ID)
		}
	}
}

func TestMatchIsIdempotentWhileMatching(t *testing.T) {
	req := openRequest()
	req.Status = models.RequestStatusMatching
	requests := &stubRequestStore{req: req}
	svc := &MatchingService{RequestRepo: requests, CompanyRepo: &stubCandidateStore{}}
	for i := 0; i < 2; i++ {
		if _, err := svc.Match(context.Background(), 1, 10, "user"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
	if len(requests.statusSet) != 0 {
		t.Fatalf("matching request must not be re-marked, got %v", requests.statusSet)
	}
}

type fakeCache struct {
	store map[int]models.MatchResponse
}

func (c *fakeCache) Get(ctx context.Context, requestID int) (models.MatchResponse, bool) {
	resp, ok := c.store[requestID]
	return resp, ok
}

func (c *fakeCache) Set(ctx context.Context, requestID int, resp models.MatchResponse) {
	c.store[requestID] = resp
}

func (c *fakeCache) Invalidate(ctx context.Context, requestID int) {
	delete(c.store, requestID)
}

func TestMatchUsesCache(t *testing.T) {
	req := openRequest()
	req.Status = models.RequestStatusMatching
	cache := &fakeCache{store: map[int]models.MatchResponse{}}
	candidates := &stubCandidateStore{companies: []models.Company{{ID: 1, CountryID: 7}}}
	svc := &MatchingService{
		RequestRepo: &stubRequestStore{req: req},
		CompanyRepo: candidates,
		Cache:       cache,
	}

	first, err := svc.Match(context.Background(), 1, 10, "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	candidates.companies = nil // cache must answer the second call
	second, err := svc.Match(context.Background(), 1, 10, "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("cached response differs: %v vs %v", first, second)
	}
}
