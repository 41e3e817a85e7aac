package gateway

import (
	"context"
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
)

// ReminderMessage carries everything the WhatsApp template needs for one
// vaccination reminder.
type ReminderMessage struct {
	MobileNumber string
	ChildName    string
	DoctorName   string
	DueDate      time.Time
	VaccineNames string
	AgeLabel     string
	// CallbackNumber is the number parents can reach the practice on: the
	// clinic doctor's contact when the patient belongs to a clinic, else the
	// doctor's own number.
	CallbackNumber string
}

// WhatsAppSender sends templated WhatsApp messages to parents. The returned
// JSON is the raw provider response, logged verbatim for audit and billing
// disputes.
type WhatsAppSender interface {
	SendReminder(ctx context.Context, msg ReminderMessage) (entity.JSON, error)
	SendWelcome(ctx context.Context, mobileNumber, childName, doctorName string) (entity.JSON, error)
}

// PushSender sends one push notification to a doctor's device. Returns the
// provider message id on success.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}
