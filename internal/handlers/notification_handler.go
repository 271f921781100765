package handlers

import (
	"net/http"

	"uslugihub/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

// GetNotifications handles GET /notifications.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := actingUser(r)
	items, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": items})
}

// MarkRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, _ := actingUser(r)
	if err := h.Service.MarkRead(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
