package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterPatientRequest registers a child and resolves its vaccine schedule
type RegisterPatientRequest struct {
	UserID         uuid.UUID  `json:"user_id" validate:"required"`
	ClinicDoctorID *uuid.UUID `json:"clinic_doctor_id,omitempty"`
	ChildName      string     `json:"child_name" validate:"required,max=255"`
	DateOfBirth    string     `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	MobileNumber   string     `json:"mobile_number" validate:"required,len=10,numeric"`
	Gender         string     `json:"gender" validate:"required,oneof=Male Female Other"`
}

// PatientResponse represents a registered patient
type PatientResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	ClinicDoctorID *uuid.UUID `json:"clinic_doctor_id,omitempty"`
	ChildName      string     `json:"child_name"`
	DateOfBirth    string     `json:"date_of_birth"`
	MobileNumber   string     `json:"mobile_number"`
	Gender         string     `json:"gender"`
	IsActive       *bool      `json:"is_active,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
