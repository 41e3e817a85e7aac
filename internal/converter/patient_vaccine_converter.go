package converter

import (
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
)

// PatientVaccineToResponse converts a dose entity to its response DTO
func PatientVaccineToResponse(vaccine *entity.PatientVaccine) *dto.PatientVaccineResponse {
	if vaccine == nil {
		return nil
	}

	resp := &dto.PatientVaccineResponse{
		ID:          vaccine.ID,
		PatientID:   vaccine.PatientID,
		VaccineName: vaccine.VaccineName(),
		VaccineAge:  vaccine.AgeLabel(),
		Status:      string(vaccine.Status),
		IsCompleted: vaccine.IsCompleted,
		CreatedAt:   vaccine.CreatedAt,
	}

	if vaccine.Patient.ChildName != "" {
		resp.PatientName = vaccine.Patient.ChildName
	}
	if vaccine.CompletedOn != nil {
		completedOn := vaccine.CompletedOn.Format("2006-01-02")
		resp.CompletedOn = &completedOn
	}
	if vaccine.CompletionSource != nil {
		source := string(*vaccine.CompletionSource)
		resp.CompletionSource = &source
	}
	if vaccine.DueDate != nil {
		dueDate := vaccine.DueDate.Format("2006-01-02")
		resp.DueDate = &dueDate
	}

	return resp
}

// PatientVaccinesToResponses converts a slice of doses
func PatientVaccinesToResponses(vaccines []entity.PatientVaccine) []dto.PatientVaccineResponse {
	responses := make([]dto.PatientVaccineResponse, 0, len(vaccines))
	for i := range vaccines {
		responses = append(responses, *PatientVaccineToResponse(&vaccines[i]))
	}
	return responses
}

// CategorizeVaccines groups doses by their canonical status
func CategorizeVaccines(vaccines []entity.PatientVaccine) *dto.CategorizedVaccinesResponse {
	categorized := &dto.CategorizedVaccinesResponse{
		Completed: []dto.PatientVaccineResponse{},
		Upcoming:  []dto.PatientVaccineResponse{},
		Pending:   []dto.PatientVaccineResponse{},
	}
	for i := range vaccines {
		resp := *PatientVaccineToResponse(&vaccines[i])
		switch vaccines[i].Status {
		case entity.VaccineStatusCompleted:
			categorized.Completed = append(categorized.Completed, resp)
		case entity.VaccineStatusPending:
			categorized.Pending = append(categorized.Pending, resp)
		default:
			categorized.Upcoming = append(categorized.Upcoming, resp)
		}
	}
	return categorized
}
