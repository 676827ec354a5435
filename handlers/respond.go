package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filenamedotexe/agency-os-sub006/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondPageError renders a page's inline error state: the page itself loads
// and shows the failure, rather than the request failing outright.
func respondPageError(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"error": message})
}

// errorStatus maps a service error onto its API status: a missing referenced
// record is a 400, a missing mutation target is a 404, anything else is a
// store failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrMilestoneNotFound),
		errors.Is(err, services.ErrServiceNotFound):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
