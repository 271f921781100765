package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"uslugihub/internal/models"
)

func TestWriteErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"request not found", models.ErrRequestNotFound, http.StatusNotFound},
		{"company not found", models.ErrCompanyNotFound, http.StatusNotFound},
		{"offer not found", models.ErrOfferNotFound, http.StatusNotFound},
		{"project not found", models.ErrProjectNotFound, http.StatusNotFound},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"duplicate offer", models.ErrOfferAlreadyExists, http.StatusConflict},
		{"already accepted", models.ErrOfferAlreadyAccepted, http.StatusConflict},
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest},
		{"request closed", models.ErrRequestNotOpen, http.StatusBadRequest},
		{"company inactive", models.ErrCompanyInactive, http.StatusBadRequest},
		{"not verified", models.ErrCompanyNotVerified, http.StatusBadRequest},
		{"offer expired", models.ErrOfferExpired, http.StatusBadRequest},
		{"illegal transition", &models.InvalidTransitionError{From: "pending", To: "completed"}, http.StatusBadRequest},
		{"unknown", errFake, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)
			if rr.Code != tt.want {
				t.Errorf("writeError(%v) status = %d, want %d", tt.err, rr.Code, tt.want)
			}
		})
	}
}

type fakeError struct{}

func (fakeError) Error() string { return "boom" }

var errFake = fakeError{}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/requests/7", nil)
	req.URL.RawQuery = url.Values{":id": {"7"}}.Encode()

	id, err := pathID(req, "id")
	if err != nil {
		t.Fatalf("pathID returned error: %v", err)
	}
	if id != 7 {
		t.Errorf("pathID = %d, want 7", id)
	}

	req.URL.RawQuery = url.Values{":id": {"abc"}}.Encode()
	if _, err := pathID(req, "id"); err == nil {
		t.Error("expected error for non-numeric id")
	}

	req.URL.RawQuery = url.Values{":id": {"0"}}.Encode()
	if _, err := pathID(req, "id"); err == nil {
		t.Error("expected error for zero id")
	}
}
