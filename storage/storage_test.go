package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

func TestClassifyResourceType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     models.ResourceType
	}{
		{"video/mp4", models.ResourceVideo},
		{"video/quicktime", models.ResourceVideo},
		{"application/pdf", models.ResourceDocument},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", models.ResourceDocument},
		{"text/plain", models.ResourceDocument},
		{"text/markdown", models.ResourceDocument},
		{"image/png", models.ResourceFile},
		{"application/zip", models.ResourceFile},
		{"", models.ResourceFile},
		{"VIDEO/MP4", models.ResourceVideo},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := ClassifyResourceType(tt.mimeType); got != tt.want {
				t.Fatalf("ClassifyResourceType(%q) = %q, want %q", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestObjectKeyNamespacesUnderCollection(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	key := ObjectKey("abc123", now, "brief.pdf")

	if !strings.HasPrefix(key, "collections/abc123/") {
		t.Fatalf("expected key namespaced under collection, got %q", key)
	}
	if !strings.HasSuffix(key, "_brief.pdf") {
		t.Fatalf("expected original file name preserved, got %q", key)
	}
}

func TestAttachmentKeyNamespacesUnderConversation(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	key := AttachmentKey("conv42", now, "contract.pdf")

	if !strings.HasPrefix(key, "conversations/conv42/") {
		t.Fatalf("expected key namespaced under conversation, got %q", key)
	}
	if strings.HasPrefix(key, "collections/") {
		t.Fatalf("attachment key must not share the knowledge namespace, got %q", key)
	}
	if !strings.HasSuffix(key, "_contract.pdf") {
		t.Fatalf("expected original file name preserved, got %q", key)
	}
}

func TestObjectKeyNeverCollidesForSameName(t *testing.T) {
	first := ObjectKey("abc123", time.Unix(0, 1), "brief.pdf")
	second := ObjectKey("abc123", time.Unix(0, 2), "brief.pdf")
	if first == second {
		t.Fatalf("expected distinct keys for repeated uploads, got %q twice", first)
	}
}
