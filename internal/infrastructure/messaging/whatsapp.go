package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"vaccine-reminder-backend/config"
	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"

	"github.com/sirupsen/logrus"
)

// WhatsAppClient sends templated WhatsApp messages through the MSG91
// outbound bulk API.
type WhatsAppClient struct {
	httpClient       *http.Client
	baseURL          string
	authKey          string
	integratedNumber string
	namespace        string
	reminderTemplate string
	welcomeTemplate  string
	log              *logrus.Logger
}

func NewWhatsAppClient(cfg config.WhatsAppConfig, log *logrus.Logger) gateway.WhatsAppSender {
	return &WhatsAppClient{
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		baseURL:          cfg.BaseURL,
		authKey:          cfg.AuthKey,
		integratedNumber: cfg.IntegratedNumber,
		namespace:        cfg.Namespace,
		reminderTemplate: cfg.ReminderTemplate,
		welcomeTemplate:  cfg.WelcomeTemplate,
		log:              log,
	}
}

// SendReminder sends one vaccination reminder. The template body carries
// child name, due date, vaccine names, age label, doctor name and a callback
// number, in that order.
func (c *WhatsAppClient) SendReminder(ctx context.Context, msg gateway.ReminderMessage) (entity.JSON, error) {
	to := normalizeNumber(msg.MobileNumber)
	components := map[string]interface{}{
		"body_1": templateText(msg.ChildName),
		"body_2": templateText(msg.DueDate.Format("2006-01-02")),
		"body_3": templateText(msg.VaccineNames),
		"body_4": templateText(msg.AgeLabel),
		"body_5": templateText(msg.DoctorName),
		"body_6": templateText("+" + normalizeNumber(msg.CallbackNumber)),
	}
	return c.sendTemplate(ctx, c.reminderTemplate, to, components)
}

// SendWelcome sends the intro message after patient registration.
func (c *WhatsAppClient) SendWelcome(ctx context.Context, mobileNumber, childName, doctorName string) (entity.JSON, error) {
	to := normalizeNumber(mobileNumber)
	components := map[string]interface{}{
		"body_1": templateText(childName),
		"body_2": templateText(doctorName),
	}
	return c.sendTemplate(ctx, c.welcomeTemplate, to, components)
}

func (c *WhatsAppClient) sendTemplate(ctx context.Context, templateName, to string, components map[string]interface{}) (entity.JSON, error) {
	payload := map[string]interface{}{
		"integrated_number": c.integratedNumber,
		"content_type":      "template",
		"payload": map[string]interface{}{
			"messaging_product": "whatsapp",
			"type":              "template",
			"template": map[string]interface{}{
				"name":      templateName,
				"language":  map[string]string{"code": "en", "policy": "deterministic"},
				"namespace": c.namespace,
				"to_and_components": []map[string]interface{}{
					{
						"to":         []string{to},
						"components": components,
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("authkey", c.authKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	var providerResp entity.JSON
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		providerResp = entity.JSON{"error": "invalid JSON response"}
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("WhatsApp API failed: %d - %v", resp.StatusCode, providerResp)
		return providerResp, fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)
	}
	if t, ok := providerResp["type"].(string); ok && t == "error" {
		c.log.Errorf("WhatsApp API rejected message: %v", providerResp)
		return providerResp, fmt.Errorf("whatsapp API rejected message")
	}

	return providerResp, nil
}

func templateText(value string) map[string]string {
	return map[string]string{"type": "text", "value": value}
}

// normalizeNumber ensures E.164 without the plus; domestic 10-digit numbers
// get the country prefix.
func normalizeNumber(number string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	if !strings.HasPrefix(number, "91") {
		return "91" + number
	}
	return number
}
