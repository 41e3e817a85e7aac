package converter

import (
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to its response DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:             patient.ID,
		UserID:         patient.UserID,
		ClinicDoctorID: patient.ClinicDoctorID,
		ChildName:      patient.ChildName,
		DateOfBirth:    patient.DateOfBirth.Format("2006-01-02"),
		MobileNumber:   patient.MobileNumber,
		Gender:         patient.Gender,
		IsActive:       patient.IsActive,
		CreatedAt:      patient.CreatedAt,
	}
}
