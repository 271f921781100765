package handlers

import (
	"encoding/json"
	"net/http"

	"uslugihub/internal/models"
	"uslugihub/internal/services"
)

type OfferHandler struct {
	Service *services.OfferService
}

type createOfferRequest struct {
	CompanyID     int                      `json:"company_id"`
	Price         float64                  `json:"price"`
	Currency      string                   `json:"currency"`
	EstimatedDays int                      `json:"estimated_days"`
	Description   string                   `json:"description"`
	Attachments   []models.OfferAttachment `json:"attachments"`
}

// CreateOffer handles POST /requests/:id/offers.
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body createOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	userID, _ := actingUser(r)

	offer, err := h.Service.CreateOffer(r.Context(), services.CreateOfferInput{
		RequestID:     requestID,
		CompanyID:     body.CompanyID,
		ActingUserID:  userID,
		Price:         body.Price,
		Currency:      body.Currency,
		EstimatedDays: body.EstimatedDays,
		Description:   body.Description,
		Attachments:   body.Attachments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"offer": offer})
}

type updateOfferRequest struct {
	Status string `json:"status"`
}

// UpdateOffer handles PUT /offers/:id. The requested status selects the
// operation: accepted (owner), rejected (owner) or withdrawn (company).
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body updateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	userID, _ := actingUser(r)

	switch body.Status {
	case models.OfferStatusAccepted:
		project, err := h.Service.AcceptOffer(r.Context(), offerID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"project": project})
	case models.OfferStatusWithdrawn:
		if err := h.Service.WithdrawOffer(r.Context(), offerID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.OfferStatusWithdrawn})
	case models.OfferStatusRejected:
		if err := h.Service.RejectOffer(r.Context(), offerID, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.OfferStatusRejected})
	default:
		writeError(w, models.ErrInvalidInput)
	}
}

// GetOffersByRequest handles GET /requests/:id/offers.
func (h *OfferHandler) GetOffersByRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	offers, err := h.Service.ListByRequest(r.Context(), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"offers": offers})
}

// GetOffersByCompany handles GET /offers/company/:company_id.
func (h *OfferHandler) GetOffersByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "company_id")
	if err != nil {
		writeError(w, err)
		return
	}
	offers, err := h.Service.ListByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"offers": offers})
}
