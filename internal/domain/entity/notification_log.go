package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLog records one push notification attempt with the raw
// provider response, successful or not. Missing-token failures are logged
// here too so operators can spot doctors with no registered device.
type NotificationLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Data      JSON           `gorm:"type:jsonb" json:"data,omitempty"`
	Status    DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Response  JSON           `gorm:"type:jsonb" json:"response,omitempty"`
	DoctorID  *uuid.UUID     `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	PatientID *uuid.UUID     `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}
