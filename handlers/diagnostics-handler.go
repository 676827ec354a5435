package handlers

import (
	"net/http"
	"time"

	"github.com/filenamedotexe/agency-os-sub006/services"
	"github.com/filenamedotexe/agency-os-sub006/storage"
	"github.com/filenamedotexe/agency-os-sub006/utils"
)

// DiagnosticsHandler serves the structured reachability report consumed by
// external test harnesses.
type DiagnosticsHandler struct {
	chat  *services.ChatService
	store *storage.Client
}

func NewDiagnosticsHandler(chat *services.ChatService, store *storage.Client) *DiagnosticsHandler {
	return &DiagnosticsHandler{chat: chat, store: store}
}

type checkResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// TestChat fans out the sub-checks concurrently; one failing check never
// hides the others' results. Each check is an idempotent read and is retried
// with backoff before its failure is reported.
func (h *DiagnosticsHandler) TestChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := utils.Parallel(
		func() (string, error) {
			return "messaging_tables", utils.Retry(3, 200*time.Millisecond, func() error {
				return h.chat.CollectionsReachable(ctx)
			})
		},
		func() (string, error) {
			return "chat_attachments_bucket", utils.Retry(3, 200*time.Millisecond, func() error {
				return h.store.BucketReachable(ctx, storage.BucketChatAttachments)
			})
		},
	)

	names := []string{"messaging_tables", "chat_attachments_bucket"}
	checks := make([]checkResult, len(results))
	allPassed := true
	for i, res := range results {
		checks[i] = checkResult{Name: names[i], Passed: res.Err == nil}
		if res.Err != nil {
			checks[i].Error = res.Err.Error()
			allPassed = false
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"passed": allPassed,
		"checks": checks,
	})
}
