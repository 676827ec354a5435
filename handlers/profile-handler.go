package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

// ProfileHandler provisions profiles and handles admin role changes.
type ProfileHandler struct {
	service *services.ProfileService
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Enroll creates a profile for a fresh auth identity.
func (h *ProfileHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if profile.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	if profile.Role == "" {
		profile.Role = models.RoleClient
	}

	created, err := h.service.EnrollProfile(r.Context(), &profile)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROFILE_ENROLL_FAILED, Description: Failed to enroll profile '%s': %v", profile.Email, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	logging.Logger.Infof("Event ID: PROFILE_ENROLLED, Description: Profile '%s' enrolled with role %s", created.Email, created.Role)
	respondJSON(w, http.StatusCreated, created)
}

// UpdateRole changes a profile's role. The route guard restricts this to
// admins; self-demotion is still rejected here.
func (h *ProfileHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	profileID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.service.UpdateRole(r.Context(), profileID, req.Role); err != nil {
		logging.Logger.Errorf("Event ID: ROLE_UPDATE_FAILED, Description: Failed to update role for %s: %v", profileID.Hex(), err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	logging.Logger.Infof("Event ID: ROLE_UPDATED, Description: Profile %s role changed to %s", profileID.Hex(), req.Role)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}
