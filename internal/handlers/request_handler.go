package handlers

import (
	"encoding/json"
	"net/http"

	"uslugihub/internal/models"
	"uslugihub/internal/services"
)

type RequestHandler struct {
	Service *services.RequestService
}

// CreateRequest handles POST /requests.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	userID, _ := actingUser(r)
	req.UserID = userID

	created, err := h.Service.CreateRequest(r.Context(), req)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			http.Error(w, "unknown category, country or city", http.StatusBadRequest)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"request": created})
}

// GetRequest handles GET /requests/:id.
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, role := actingUser(r)
	req, err := h.Service.GetRequest(r.Context(), requestID, userID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"request": req})
}

// CancelRequest handles DELETE /requests/:id (soft deactivation).
func (h *RequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, role := actingUser(r)
	if err := h.Service.CancelRequest(r.Context(), requestID, userID, role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.RequestStatusCancelled})
}
