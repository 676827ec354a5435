package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

// PageHandler serves the role-gated page view models. Redirect semantics are
// applied by the guard middleware before any of these run; handlers here only
// fetch and compose.
type PageHandler struct {
	profiles  *services.ProfileService
	services  *services.ServiceService
	tasks     *services.TaskService
	chat      *services.ChatService
	knowledge *services.KnowledgeService
}

func NewPageHandler(
	profiles *services.ProfileService,
	svcService *services.ServiceService,
	tasks *services.TaskService,
	chat *services.ChatService,
	knowledge *services.KnowledgeService,
) *PageHandler {
	return &PageHandler{
		profiles:  profiles,
		services:  svcService,
		tasks:     tasks,
		chat:      chat,
		knowledge: knowledge,
	}
}

// Dashboard routes the caller to their role's canonical home.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, middleware.HomeFor(identity.Role), http.StatusSeeOther)
}

// Welcome returns the caller's resolved profile and role home.
func (h *PageHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	profileID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondPageError(w, "invalid session identity")
		return
	}

	profile, err := h.profiles.GetProfileByID(r.Context(), profileID)
	if err != nil {
		logging.Logger.Errorf("Event ID: WELCOME_FETCH_FAILED, Description: Failed to load profile %s: %v", identity.UserID, err)
		respondPageError(w, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"home":    middleware.HomeFor(profile.Role),
	})
}

// RoleHome is the landing view for /admin, /team, and /client.
func (h *PageHandler) RoleHome(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	respondJSON(w, http.StatusOK, map[string]string{
		"role": string(identity.Role),
		"home": middleware.HomeFor(identity.Role),
	})
}

func (h *PageHandler) ServicesPage(w http.ResponseWriter, r *http.Request) {
	svcs, err := h.services.GetAllServices(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: SERVICES_PAGE_FAILED, Description: Failed to load services: %v", err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"services": svcs})
}

func (h *PageHandler) ServiceDetailPage(w http.ResponseWriter, r *http.Request) {
	serviceID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondPageError(w, "invalid service id")
		return
	}

	detail, err := h.services.GetServiceByID(r.Context(), serviceID)
	if err != nil {
		logging.Logger.Errorf("Event ID: SERVICE_DETAIL_FAILED, Description: Failed to load service %s: %v", serviceID.Hex(), err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *PageHandler) ClientsPage(w http.ResponseWriter, r *http.Request) {
	clients, err := h.services.GetClients(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: CLIENTS_PAGE_FAILED, Description: Failed to load clients: %v", err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
}

// ClientTasksPage serves the client's own task list: assigned tasks plus
// client-visible tasks of their services, nothing else.
func (h *PageHandler) ClientTasksPage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	clientID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondPageError(w, "invalid session identity")
		return
	}

	page, err := h.tasks.GetTasksForClient(r.Context(), clientID)
	if err != nil {
		logging.Logger.Errorf("Event ID: CLIENT_TASKS_FAILED, Description: Failed to load tasks for client %s: %v", identity.UserID, err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *PageHandler) MessagesPage(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.chat.GetInbox(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: MESSAGES_PAGE_FAILED, Description: Failed to load inbox: %v", err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"conversations": inbox})
}

func (h *PageHandler) KnowledgePage(w http.ResponseWriter, r *http.Request) {
	collections, err := h.knowledge.GetCollections(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: KNOWLEDGE_PAGE_FAILED, Description: Failed to load collections: %v", err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"collections": collections})
}

func (h *PageHandler) KnowledgeDetailPage(w http.ResponseWriter, r *http.Request) {
	collectionID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondPageError(w, "invalid collection id")
		return
	}

	detail, err := h.knowledge.GetCollectionByID(r.Context(), collectionID)
	if err != nil {
		logging.Logger.Errorf("Event ID: KNOWLEDGE_DETAIL_FAILED, Description: Failed to load collection %s: %v", collectionID.Hex(), err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, detail)
}
