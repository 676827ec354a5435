package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/repositories"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

// NotificationHandler serves each caller's own notification feed plus the
// admin email management page.
type NotificationHandler struct {
	repo     *repositories.NotificationRepo
	notifier *services.NotificationService
}

func NewNotificationHandler(repo *repositories.NotificationRepo, notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{repo: repo, notifier: notifier}
}

// GetNotifications lists the caller's notifications, newest first.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)

	notifications, err := h.repo.GetNotificationsByRecipient(identity.UserID)
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_FEED_FAILED, Description: Failed to fetch notifications for %s: %v", identity.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	// Always a JSON array, even when empty.
	if notifications == nil {
		notifications = []models.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)

	var req struct {
		NotificationID string `json:"notificationId"`
		CreatedAt      string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.NotificationID == "" || req.CreatedAt == "" {
		respondError(w, http.StatusBadRequest, "notificationId and createdAt are required")
		return
	}

	if err := h.repo.MarkNotificationAsRead(identity.UserID, req.NotificationID, req.CreatedAt); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_FAILED, Description: Failed to mark notification %s as read: %v", req.NotificationID, err)
		respondError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// EmailsPage is the admin email management view: the latest outbox entries
// with their dispatch state.
func (h *NotificationHandler) EmailsPage(w http.ResponseWriter, r *http.Request) {
	entries, err := h.notifier.RecentOutbox(r.Context(), 100)
	if err != nil {
		logging.Logger.Errorf("Event ID: EMAILS_PAGE_FAILED, Description: Failed to load outbox: %v", err)
		respondPageError(w, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"emails": entries})
}
