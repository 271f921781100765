package models

// MatchResult is one scored candidate company for a request.
type MatchResult struct {
	Company
	MatchScore    int      `json:"matchScore"`
	MatchReasons  []string `json:"matchReasons"`
	AverageRating float64  `json:"averageRating"`
}

// MatchResponse is the payload returned by POST /requests/:id/match.
type MatchResponse struct {
	Matches      []MatchResult `json:"matches"`
	TotalMatches int           `json:"totalMatches"`
}
