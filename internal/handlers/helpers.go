package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"uslugihub/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var invalid *models.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalid.Error()})
	case errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrCompanyNotFound),
		errors.Is(err, models.ErrOfferNotFound),
		errors.Is(err, models.ErrProjectNotFound),
		errors.Is(err, models.ErrNotificationNotFound),
		errors.Is(err, models.ErrNoRecord):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, models.ErrOfferAlreadyExists),
		errors.Is(err, models.ErrOfferAlreadyAccepted):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrRequestNotOpen),
		errors.Is(err, models.ErrCompanyInactive),
		errors.Is(err, models.ErrCompanyNotVerified),
		errors.Is(err, models.ErrOfferExpired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.URL.Query().Get(":" + name))
	if err != nil || id <= 0 {
		return 0, models.ErrInvalidInput
	}
	return id, nil
}

func actingUser(r *http.Request) (int, string) {
	userID, _ := r.Context().Value("user_id").(int)
	role, _ := r.Context().Value("role").(string)
	return userID, role
}
