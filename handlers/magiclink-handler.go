package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

// MagicLinkHandler redeems /m/{token} links. No session is required; the
// token itself is the credential.
type MagicLinkHandler struct {
	service *services.ChatService
}

func NewMagicLinkHandler(service *services.ChatService) *MagicLinkHandler {
	return &MagicLinkHandler{service: service}
}

// Redeem consumes the token and redirects into its conversation. A token is
// deleted on first redemption; a second attempt fails as invalid. Raw store
// errors are never surfaced here.
func (h *MagicLinkHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		respondError(w, http.StatusBadRequest, "invalid link")
		return
	}

	conversationID, err := h.service.RedeemMagicLink(r.Context(), token)
	switch err {
	case nil:
		http.Redirect(w, r, fmt.Sprintf("/messages?conversation=%s", conversationID.Hex()), http.StatusSeeOther)
	case services.ErrExpiredLink:
		respondError(w, http.StatusGone, "expired link")
	default:
		logging.Logger.Warnf("Event ID: MAGIC_LINK_REDEEM_FAILED, Description: Magic link redemption failed: %v", err)
		respondError(w, http.StatusNotFound, "invalid link")
	}
}
