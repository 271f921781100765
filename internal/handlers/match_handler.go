package handlers

import (
	"net/http"

	"uslugihub/internal/services"
)

type MatchHandler struct {
	Service *services.MatchingService
}

// Match handles POST /requests/:id/match.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, role := actingUser(r)

	resp, err := h.Service.Match(r.Context(), requestID, userID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
