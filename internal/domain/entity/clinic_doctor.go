package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicDoctor represents a doctor employed by a clinic account. Patients
// registered by a clinic are attached to one of its doctors, whose contact
// number becomes the callback number in reminder messages.
type ClinicDoctor struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactNumber string    `gorm:"type:varchar(20)" json:"contact_number,omitempty"`
	IsActive      *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Clinic User `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
}

func (ClinicDoctor) TableName() string {
	return "clinic_doctors"
}
