package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filenamedotexe/agency-os-sub006/storage"
)

func oversizedUploadRequest(t *testing.T) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("collectionId", "64b0c8f0a1b2c3d4e5f60718"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	part, err := mw.CreateFormFile("file", "huge.bin")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write(make([]byte, storage.MaxUploadSize+4096)); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/knowledge/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// The size ceiling must reject before any store or service call; the handler
// is built with neither, so reaching them would panic the test.
func TestUploadRejectsOversizedFile(t *testing.T) {
	h := NewKnowledgeHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Upload(rec, oversizedUploadRequest(t))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "upload limit") {
		t.Fatalf("expected upload limit error, got %s", rec.Body.String())
	}
}

func TestUploadRejectsMalformedCollectionID(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("collectionId", "not-an-id"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/knowledge/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h := NewKnowledgeHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid collection ID") {
		t.Fatalf("expected invalid collection ID error, got %s", rec.Body.String())
	}
}
