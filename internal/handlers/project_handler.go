package handlers

import (
	"encoding/json"
	"net/http"

	"uslugihub/internal/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

type updateProjectRequest struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress"`
}

// UpdateProject handles PUT /projects/:id, either a status transition or a
// progress report.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var body updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	userID, role := actingUser(r)

	if body.Status != "" {
		project, err := h.Service.Transition(r.Context(), projectID, userID, role, body.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"project": project})
		return
	}
	if body.Progress != nil {
		project, err := h.Service.UpdateProgress(r.Context(), projectID, userID, role, *body.Progress)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"project": project})
		return
	}
	http.Error(w, "status or progress required", http.StatusBadRequest)
}

// GetProject handles GET /projects/:id.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, role := actingUser(r)
	project, err := h.Service.GetProject(r.Context(), projectID, userID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"project": project})
}

// GetProjects handles GET /projects and lists the caller's projects on both
// sides of the marketplace.
func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := actingUser(r)
	projects, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}
