package dto

import (
	"time"

	"github.com/google/uuid"
)

// PatientVaccineResponse represents one dose of a patient's schedule
type PatientVaccineResponse struct {
	ID               int64      `json:"id"`
	PatientID        uuid.UUID  `json:"patient_id"`
	PatientName      string     `json:"patient_name,omitempty"`
	VaccineName      string     `json:"vaccine_name"`
	VaccineAge       string     `json:"vaccine_age"`
	Status           string     `json:"status"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedOn      *string    `json:"completed_on,omitempty"`
	CompletionSource *string    `json:"completion_source,omitempty"`
	DueDate          *string    `json:"due_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CategorizedVaccinesResponse groups a patient's doses by status
type CategorizedVaccinesResponse struct {
	Completed []PatientVaccineResponse `json:"completed"`
	Upcoming  []PatientVaccineResponse `json:"upcoming"`
	Pending   []PatientVaccineResponse `json:"pending"`
}

// MarkCompletedRequest marks a dose as administered
type MarkCompletedRequest struct {
	CompletionSource string `json:"completion_source" validate:"required"`
}

// AddCustomVaccineRequest creates a one-off custom dose for a patient
type AddCustomVaccineRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	Vaccine string    `json:"vaccine" validate:"required,max=150"`
	Age     string    `json:"age,omitempty" validate:"max=50"`
	DueDate string    `json:"due_date" validate:"required,datetime=2006-01-02"`
}
