package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
)

func twilioStub(t *testing.T, validSID, validToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, token, ok := r.BasicAuth()
		if !ok || sid != validSID || token != validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sid":%q,"friendly_name":"Agency","status":"active"}`, sid)
	}))
}

func smsTestRequest(body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/sms-settings/test", strings.NewReader(body))
	return httptest.NewRecorder(), req
}

func TestSMSTestCredentialsValid(t *testing.T) {
	stub := twilioStub(t, "AC123", "tok")
	defer stub.Close()

	h := NewSMSHandler(stub.URL, gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"}))

	rec, req := smsTestRequest(`{"account_sid":"AC123","auth_token":"tok"}`)
	h.TestCredentials(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success=true, got %v", resp)
	}
}

func TestSMSTestCredentialsInvalid(t *testing.T) {
	stub := twilioStub(t, "AC123", "tok")
	defer stub.Close()

	h := NewSMSHandler(stub.URL, gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"}))

	rec, req := smsTestRequest(`{"account_sid":"AC123","auth_token":"wrong"}`)
	h.TestCredentials(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["success"] != false {
		t.Fatalf("expected success=false, got %v", resp)
	}
}

func TestSMSTestCredentialsMissingFields(t *testing.T) {
	h := NewSMSHandler("http://unused", gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"}))

	rec, req := smsTestRequest(`{"account_sid":"AC123"}`)
	h.TestCredentials(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSMSTestCredentialsUpstreamDown(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer stub.Close()

	h := NewSMSHandler(stub.URL, gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"}))

	rec, req := smsTestRequest(`{"account_sid":"AC123","auth_token":"tok"}`)
	h.TestCredentials(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["success"] != false || resp["error"] == "" {
		t.Fatalf("expected failure with error message, got %v", resp)
	}
}
