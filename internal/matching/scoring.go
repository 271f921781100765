package matching

import (
	"fmt"
	"strings"

	"uslugihub/internal/models"
)

// Weights of the rule set. The total is not capped; a company matching every
// rule can exceed 100.
const (
	categoryWeight    = 40
	sameCityWeight    = 30
	sameCountryWeight = 20
	tagWeight         = 5
	tagWeightCap      = 15
	topRatedWeight    = 10
	highlyRatedWeight = 5
	experienceWeight  = 5

	topRatedThreshold    = 4.5
	highlyRatedThreshold = 4.0
	experienceThreshold  = 10
)

// Score evaluates a candidate company against a request. It is a pure
// function over its inputs: no I/O, never fails, missing data just scores
// zero.
func Score(req models.ServiceRequest, company models.Company) (int, []string) {
	score := 0
	reasons := []string{}

	if matchesCategory(req.CategoryName, company.Services) {
		score += categoryWeight
		reasons = append(reasons, "Category match")
	}

	// City and country bonuses are mutually exclusive; city wins.
	if req.CityID != 0 && req.CityID == company.CityID {
		score += sameCityWeight
		reasons = append(reasons, "Same city")
	} else if req.CountryID != 0 && req.CountryID == company.CountryID {
		score += sameCountryWeight
		reasons = append(reasons, "Same country")
	}

	if count := tagOverlap(req.Tags, company.Services); count > 0 {
		bonus := count * tagWeight
		if bonus > tagWeightCap {
			bonus = tagWeightCap
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("%d tag matches", count))
	}

	switch {
	case company.AverageRating >= topRatedThreshold:
		score += topRatedWeight
		reasons = append(reasons, "Top rated")
	case company.AverageRating >= highlyRatedThreshold:
		score += highlyRatedWeight
		reasons = append(reasons, "Highly rated")
	}

	if company.ProjectsCompleted >= experienceThreshold {
		score += experienceWeight
		reasons = append(reasons, "Experienced")
	}

	return score, reasons
}

func matchesCategory(categoryName string, services []models.CompanyService) bool {
	category := strings.ToLower(strings.TrimSpace(categoryName))
	if category == "" {
		return false
	}
	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc.Name), category) {
			return true
		}
		if strings.Contains(strings.ToLower(svc.Description), category) {
			return true
		}
	}
	return false
}

func tagOverlap(requestTags []string, services []models.CompanyService) int {
	if len(requestTags) == 0 {
		return 0
	}
	companyTags := make(map[string]struct{})
	for _, svc := range services {
		for _, tag := range svc.Tags {
			companyTags[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
		}
	}
	count := 0
	for _, tag := range requestTags {
		if _, ok := companyTags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			count++
		}
	}
	return count
}
