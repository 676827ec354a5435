package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/middleware"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/services"
	"github.com/filenamedotexe/agency-os-sub006/storage"
)

type KnowledgeHandler struct {
	service *services.KnowledgeService
	store   *storage.Client
}

func NewKnowledgeHandler(service *services.KnowledgeService, store *storage.Client) *KnowledgeHandler {
	return &KnowledgeHandler{service: service, store: store}
}

func (h *KnowledgeHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)

	var collection models.Collection
	if err := json.NewDecoder(r.Body).Decode(&collection); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if collection.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if createdBy, err := primitive.ObjectIDFromHex(identity.UserID); err == nil {
		collection.CreatedBy = createdBy
	}

	created, err := h.service.CreateCollection(r.Context(), &collection)
	if err != nil {
		logging.Logger.Errorf("Event ID: COLLECTION_CREATE_FAILED, Description: Failed to create collection: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Upload accepts a multipart file plus a target collection id. The size
// ceiling is enforced before anything is stored.
func (h *KnowledgeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File exceeds the 50 MB upload limit")
		return
	}

	collectionIDStr := r.FormValue("collectionId")
	collectionID, err := primitive.ObjectIDFromHex(collectionIDStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid collection ID format")
		return
	}

	exists, err := h.service.CollectionExists(r.Context(), collectionID)
	if err != nil {
		logging.Logger.Errorf("Event ID: UPLOAD_COLLECTION_CHECK_FAILED, Description: Failed to check collection %s: %v", collectionIDStr, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !exists {
		respondError(w, http.StatusBadRequest, "Collection not found")
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

	mimeType := header.Header.Get("Content-Type")
	resourceType := storage.ClassifyResourceType(mimeType)
	objectKey := storage.ObjectKey(collectionID.Hex(), time.Now(), header.Filename)

	path, err := h.store.Upload(r.Context(), storage.BucketKnowledgeHub, objectKey, file, header.Size, mimeType)
	if err != nil {
		logging.Logger.Errorf("Event ID: UPLOAD_STORE_FAILED, Description: Failed to store upload '%s': %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	url, err := h.store.PresignedGet(r.Context(), storage.BucketKnowledgeHub, path)
	if err != nil {
		logging.Logger.Errorf("Event ID: UPLOAD_SIGN_FAILED, Description: Failed to sign URL for '%s': %v", path, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resource := &models.Resource{
		CollectionID: collectionID,
		FileName:     header.Filename,
		StoragePath:  path,
		MimeType:     mimeType,
		FileSize:     header.Size,
		Type:         resourceType,
	}
	if uploadedBy, err := primitive.ObjectIDFromHex(identity.UserID); err == nil {
		resource.UploadedBy = uploadedBy
	}
	if _, err := h.service.RecordResource(r.Context(), resource); err != nil {
		logging.Logger.Errorf("Event ID: UPLOAD_RECORD_FAILED, Description: Failed to record resource '%s': %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"url":          url,
		"fileName":     header.Filename,
		"fileSize":     header.Size,
		"mimeType":     mimeType,
		"resourceType": resourceType,
	})
}

// SignedURL issues a 1-hour signed URL for a stored path.
func (h *KnowledgeHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	url, err := h.store.PresignedGet(r.Context(), storage.BucketKnowledgeHub, path)
	if err != nil {
		logging.Logger.Errorf("Event ID: SIGN_URL_FAILED, Description: Failed to sign URL for '%s': %v", path, err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
