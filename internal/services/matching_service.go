package services

import (
	"context"
	"sort"

	"uslugihub/internal/matching"
	"uslugihub/internal/models"
)

const (
	candidateLimit = 20
	resultLimit    = 10
)

// RoleAdmin may act on any request or project.
const RoleAdmin = "admin"

type MatchRequestStore interface {
	GetRequestByID(ctx context.Context, id int) (models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type CandidateStore interface {
	ListCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]models.Company, error)
}

type MatchingService struct {
	RequestRepo MatchRequestStore
	CompanyRepo CandidateStore
	Cache       MatchCache // optional
}

// Match scores candidate companies against an open request and returns the
// ranked top matches. Only the request owner or an admin may run it.
func (s *MatchingService) Match(ctx context.Context, requestID, actingUserID int, role string) (models.MatchResponse, error) {
	req, err := s.RequestRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return models.MatchResponse{}, err
	}
	if req.UserID != actingUserID && role != RoleAdmin {
		return models.MatchResponse{}, models.ErrForbidden
	}

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, requestID); ok {
			return cached, nil
		}
	}

	candidates, err := s.CompanyRepo.ListCandidates(ctx, req, candidateLimit)
	if err != nil {
		return models.MatchResponse{}, err
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for _, company := range candidates {
		score, reasons := matching.Score(req, company)
		results = append(results, models.MatchResult{
			Company:       company,
			MatchScore:    score,
			MatchReasons:  reasons,
			AverageRating: company.AverageRating,
		})
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	total := len(results)
	if len(results) > resultLimit {
		results = results[:resultLimit]
	}

	// Idempotent side effect: the request advertises that matching ran.
	if req.Status != models.RequestStatusMatching {
		if err := s.RequestRepo.UpdateStatus(ctx, requestID, models.RequestStatusMatching); err != nil {
			return models.MatchResponse{}, err
		}
	}

	resp := models.MatchResponse{Matches: results, TotalMatches: total}
	if s.Cache != nil {
		s.Cache.Set(ctx, requestID, resp)
	}
	return resp, nil
}

// ClearStaleMatches drops cached rankings for requests that are no longer
// open for offers. Used by the background cleaner.
func (s *MatchingService) ClearStaleMatches(ctx context.Context) (int, error) {
	cache, ok := s.Cache.(*RedisMatchCache)
	if !ok || cache == nil {
		return 0, nil
	}
	return cache.Sweep(ctx, func(requestID int) bool {
		req, err := s.RequestRepo.GetRequestByID(ctx, requestID)
		if err != nil {
			return false
		}
		return models.RequestOpenForOffers(req.Status)
	})
}
