package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a registered child whose vaccine schedule is tracked
type Patient struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ClinicDoctorID *uuid.UUID `gorm:"type:uuid;index" json:"clinic_doctor_id,omitempty"`
	ChildName      string     `gorm:"type:varchar(255);not null" json:"child_name"`
	DateOfBirth    time.Time  `gorm:"type:date;not null" json:"date_of_birth"`
	MobileNumber   string     `gorm:"type:varchar(10);not null;index" json:"mobile_number"`
	Gender         string     `gorm:"type:varchar(10);not null" json:"gender"`
	IsActive       *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ClinicDoctor *ClinicDoctor `gorm:"foreignKey:ClinicDoctorID" json:"clinic_doctor,omitempty"`
	Vaccines     []PatientVaccine `gorm:"foreignKey:PatientID" json:"vaccines,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
