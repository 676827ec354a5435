package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/utils"
)

// SMSHandler verifies Twilio credentials for the admin SMS settings page.
type SMSHandler struct {
	twilioBaseURL string
	breaker       *gobreaker.CircuitBreaker
}

func NewSMSHandler(twilioBaseURL string, breaker *gobreaker.CircuitBreaker) *SMSHandler {
	return &SMSHandler{twilioBaseURL: twilioBaseURL, breaker: breaker}
}

func (h *SMSHandler) TestCredentials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountSID string `json:"account_sid"`
		AuthToken  string `json:"auth_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.AccountSID == "" || req.AuthToken == "" {
		respondError(w, http.StatusBadRequest, "account_sid and auth_token are required")
		return
	}

	result, err := h.breaker.Execute(func() (interface{}, error) {
		return utils.VerifyTwilioCredentials(h.twilioBaseURL, req.AccountSID, req.AuthToken)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: SMS_TEST_FAILED, Description: Twilio credential check failed: %v", err)
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	valid := result.(bool)
	if !valid {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Invalid Twilio credentials"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
