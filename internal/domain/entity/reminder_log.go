package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus of one outbound message attempt
type DeliveryStatus string

const (
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusPending DeliveryStatus = "pending"
)

// Reminder types
const (
	ReminderTypeVaccination  = "vaccination"
	ReminderTypeMissedDose   = "missed_dose"
	ReminderTypeRegistration = "registration"
)

// ReminderLog is the append-only audit record of one outbound reminder
// message. Rows are created once per dispatch attempt and never mutated;
// the success rows are the billing source of truth for per-message counts.
type ReminderLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReminderType string         `gorm:"type:varchar(30);not null;index" json:"reminder_type"`
	Recipient    string         `gorm:"type:varchar(20);not null" json:"recipient"`
	ChildName    string         `gorm:"type:varchar(255)" json:"child_name"`
	DoctorName   string         `gorm:"type:varchar(255)" json:"doctor_name"`
	DoctorID     *uuid.UUID     `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	PatientID    *uuid.UUID     `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	VaccineName  string         `gorm:"type:text" json:"vaccine_name"`
	DueDate      *time.Time     `gorm:"type:date" json:"due_date,omitempty"`
	Status       DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Response     JSON           `gorm:"type:jsonb" json:"response,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ReminderLog) TableName() string {
	return "reminder_logs"
}
