package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/filenamedotexe/agency-os-sub006/logging"
)

type twilioAccountResponse struct {
	SID          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
}

// VerifyTwilioCredentials checks an account SID / auth token pair by fetching
// the account resource with basic auth. A 2xx response means the credentials
// are valid; 401 means they are not; anything else is an upstream failure.
func VerifyTwilioCredentials(baseURL, accountSID, authToken string) (bool, error) {
	logging.Logger.Debug("Event ID: VERIFY_TWILIO_START, Description: Attempting to verify Twilio credentials.")

	url := fmt.Sprintf("%s/2010-04-01/Accounts/%s.json", baseURL, accountSID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("error creating request to Twilio API: %v", err)
	}
	req.SetBasicAuth(accountSID, authToken)

	client := NewHTTPClient()
	resp, err := client.Do(req)
	if err != nil {
		logging.Logger.Errorf("Event ID: VERIFY_TWILIO_HTTP_FAILED, Description: Error sending request to Twilio API: %v", err)
		return false, fmt.Errorf("error sending request to Twilio API: %v", err)
	}
	defer resp.Body.Close()
	logging.Logger.Debugf("Event ID: VERIFY_TWILIO_HTTP_RESPONSE, Description: Received HTTP response from Twilio API with status: %s", resp.Status)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		logging.Logger.Warnf("Event ID: VERIFY_TWILIO_FAILED, Description: Twilio rejected the provided credentials (status %d).", resp.StatusCode)
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("unexpected Twilio API status: %s", resp.Status)
	}

	var account twilioAccountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		logging.Logger.Errorf("Event ID: VERIFY_TWILIO_DECODE_FAILED, Description: Error decoding Twilio API response: %v", err)
		return false, fmt.Errorf("error decoding Twilio API response: %v", err)
	}

	logging.Logger.Infof("Event ID: VERIFY_TWILIO_SUCCESS, Description: Twilio credentials verified for account '%s'.", account.FriendlyName)
	return true, nil
}
