package messaging

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vaccine-reminder-backend/config"
	"vaccine-reminder-backend/internal/domain/gateway"

	"github.com/sirupsen/logrus"
)

func testClient(baseURL string) *WhatsAppClient {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewWhatsAppClient(config.WhatsAppConfig{
		BaseURL:          baseURL,
		AuthKey:          "test-key",
		IntegratedNumber: "919999999999",
		Namespace:        "test-namespace",
		ReminderTemplate: "vaccine_reminder",
		WelcomeTemplate:  "welcome_message",
		Timeout:          time.Second,
	}, log).(*WhatsAppClient)
}

func TestSendReminderBuildsTemplatePayload(t *testing.T) {
	var captured map[string]interface{}
	var authKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authKey = r.Header.Get("authkey")
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]string{"type": "success"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.SendReminder(context.Background(), gateway.ReminderMessage{
		MobileNumber:   "9876543210",
		ChildName:      "Aarav",
		DoctorName:     "Dr. Mehta",
		DueDate:        time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
		VaccineNames:   "DTwP 1, OPV 1",
		AgeLabel:       "6 Weeks",
		CallbackNumber: "9000000000",
	})
	if err != nil {
		t.Fatalf("SendReminder error: %v", err)
	}
	if resp["type"] != "success" {
		t.Fatalf("expected provider response passthrough, got %v", resp)
	}
	if authKey != "test-key" {
		t.Fatalf("expected authkey header, got %q", authKey)
	}

	if captured["integrated_number"] != "919999999999" {
		t.Fatalf("expected integrated number, got %v", captured["integrated_number"])
	}

	payload := captured["payload"].(map[string]interface{})
	template := payload["template"].(map[string]interface{})
	if template["name"] != "vaccine_reminder" || template["namespace"] != "test-namespace" {
		t.Fatalf("unexpected template block: %v", template)
	}

	toAndComponents := template["to_and_components"].([]interface{})
	entry := toAndComponents[0].(map[string]interface{})
	to := entry["to"].([]interface{})
	if to[0] != "919876543210" {
		t.Fatalf("domestic number must get the 91 prefix, got %v", to[0])
	}

	components := entry["components"].(map[string]interface{})
	body2 := components["body_2"].(map[string]interface{})
	if body2["value"] != "2024-02-12" {
		t.Fatalf("expected due date in body_2, got %v", body2["value"])
	}
	body6 := components["body_6"].(map[string]interface{})
	if body6["value"] != "+919000000000" {
		t.Fatalf("expected callback in body_6, got %v", body6["value"])
	}
}

func TestSendTemplateRejectsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"type": "error", "message": "invalid template"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.SendWelcome(context.Background(), "9876543210", "Aarav", "Dr. Mehta")
	if err == nil {
		t.Fatal("a type=error response must fail the send")
	}
	if resp["message"] != "invalid template" {
		t.Fatalf("provider response must still be returned for logging, got %v", resp)
	}
}

func TestSendTemplateRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid authkey"})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.SendWelcome(context.Background(), "9876543210", "Aarav", "Dr. Mehta"); err == nil {
		t.Fatal("a non-200 response must fail the send")
	}
}

func TestNormalizeNumber(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"9876543210", "919876543210"},
		{"919876543210", "919876543210"},
		{"+919876543210", "919876543210"},
		{" 9876543210 ", "919876543210"},
	}
	for _, tc := range cases {
		if got := normalizeNumber(tc.in); got != tc.expected {
			t.Fatalf("normalizeNumber(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}
