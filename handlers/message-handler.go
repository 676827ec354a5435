package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/services"
	"github.com/filenamedotexe/agency-os-sub006/storage"
)

type MessageHandler struct {
	service    *services.ChatService
	store      *storage.Client
	appBaseURL string
}

func NewMessageHandler(service *services.ChatService, store *storage.Client, appBaseURL string) *MessageHandler {
	return &MessageHandler{service: service, store: store, appBaseURL: appBaseURL}
}

func (h *MessageHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	creatorID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session identity")
		return
	}

	var req struct {
		Subject        string   `json:"subject"`
		ParticipantIDs []string `json:"participantIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	participantIDs := make([]primitive.ObjectID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid participant ID format")
			return
		}
		participantIDs = append(participantIDs, id)
	}

	conversation, err := h.service.CreateConversation(r.Context(), req.Subject, creatorID, participantIDs)
	if err != nil {
		logging.Logger.Errorf("Event ID: CONVERSATION_CREATE_FAILED, Description: Failed to create conversation: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, conversation)
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	senderID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session identity")
		return
	}

	conversationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	var req struct {
		Body           string `json:"body"`
		AttachmentPath string `json:"attachmentPath,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Body == "" && req.AttachmentPath == "" {
		respondError(w, http.StatusBadRequest, "body or attachmentPath is required")
		return
	}

	message, err := h.service.SendMessage(r.Context(), conversationID, senderID, req.Body, req.AttachmentPath)
	if err != nil {
		logging.Logger.Errorf("Event ID: MESSAGE_SEND_FAILED, Description: Failed to send message to conversation %s: %v", conversationID.Hex(), err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	messages, err := h.service.GetMessages(r.Context(), conversationID)
	if err != nil {
		logging.Logger.Errorf("Event ID: MESSAGE_LIST_FAILED, Description: Failed to list messages for conversation %s: %v", conversationID.Hex(), err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// UploadAttachment stores a chat attachment and returns its storage path for
// use in a subsequent message. Only participants may attach.
func (h *MessageHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	senderID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session identity")
		return
	}

	conversationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	ok, err := h.service.IsParticipant(r.Context(), conversationID, senderID)
	if err != nil {
		logging.Logger.Errorf("Event ID: ATTACHMENT_PARTICIPANT_CHECK_FAILED, Description: Failed to check participant for conversation %s: %v", conversationID.Hex(), err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		respondError(w, http.StatusForbidden, "sender is not a participant of this conversation")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File exceeds the 50 MB upload limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize {
		respondError(w, http.StatusBadRequest, "File exceeds the 50 MB upload limit")
		return
	}

	objectKey := storage.AttachmentKey(conversationID.Hex(), time.Now(), header.Filename)
	path, err := h.store.Upload(r.Context(), storage.BucketChatAttachments, objectKey, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		logging.Logger.Errorf("Event ID: ATTACHMENT_STORE_FAILED, Description: Failed to store attachment '%s': %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	url, err := h.store.PresignedGet(r.Context(), storage.BucketChatAttachments, path)
	if err != nil {
		logging.Logger.Errorf("Event ID: ATTACHMENT_SIGN_FAILED, Description: Failed to sign URL for '%s': %v", path, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"attachmentPath": path,
		"url":            url,
		"fileName":       header.Filename,
		"fileSize":       header.Size,
	})
}

// CreateMagicLink mints a single-use, time-boxed link into a conversation.
func (h *MessageHandler) CreateMagicLink(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)
	creatorID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session identity")
		return
	}

	var req struct {
		ConversationID string `json:"conversationId"`
		TTLHours       int    `json:"ttlHours,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	conversationID, err := primitive.ObjectIDFromHex(req.ConversationID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	link, err := h.service.CreateMagicLink(r.Context(), conversationID, creatorID, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		logging.Logger.Errorf("Event ID: MAGIC_LINK_CREATE_FAILED, Description: Failed to create magic link: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token":     link.Token,
		"url":       fmt.Sprintf("%s/m/%s", h.appBaseURL, link.Token),
		"expiresAt": link.ExpiresAt,
	})
}
