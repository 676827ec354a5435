package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

type ServiceHandler struct {
	service *services.ServiceService
}

func NewServiceHandler(service *services.ServiceService) *ServiceHandler {
	return &ServiceHandler{service: service}
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)

	var svc models.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if svc.Name == "" || svc.ClientID.IsZero() {
		respondError(w, http.StatusBadRequest, "name and clientId are required")
		return
	}

	if createdBy, err := primitive.ObjectIDFromHex(identity.UserID); err == nil {
		svc.CreatedBy = createdBy
	}

	created, err := h.service.CreateService(r.Context(), &svc)
	if err != nil {
		logging.Logger.Errorf("Event ID: SERVICE_CREATE_FAILED, Description: Failed to create service: %v", err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// DeleteService is restricted to admins on top of the route guard.
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	if identity.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	if err := h.service.DeleteService(r.Context(), serviceID); err != nil {
		logging.Logger.Errorf("Event ID: SERVICE_DELETE_FAILED, Description: Failed to delete service %s: %v", serviceID.Hex(), err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}

func (h *ServiceHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	var milestone models.Milestone
	if err := json.NewDecoder(r.Body).Decode(&milestone); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if milestone.Title == "" || milestone.ServiceID.IsZero() {
		respondError(w, http.StatusBadRequest, "title and serviceId are required")
		return
	}

	created, err := h.service.CreateMilestone(r.Context(), &milestone)
	if err != nil {
		logging.Logger.Errorf("Event ID: MILESTONE_CREATE_FAILED, Description: Failed to create milestone: %v", err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}
