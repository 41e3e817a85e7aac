package handler

import (
	"encoding/json"
	"net/http"

	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/usecase"
	"vaccine-reminder-backend/pkg/response"
	"vaccine-reminder-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	resolverUsecase usecase.ScheduleResolverUsecase
	vaccineUsecase  usecase.PatientVaccineUsecase
	validator       *validator.CustomValidator
}

func NewPatientHandler(resolverUsecase usecase.ScheduleResolverUsecase, vaccineUsecase usecase.PatientVaccineUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		resolverUsecase: resolverUsecase,
		vaccineUsecase:  vaccineUsecase,
		validator:       validator,
	}
}

func (h *PatientHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.resolverUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateOfBirth:
			response.BadRequest(w, "Invalid date of birth")
		case usecase.ErrOwnerNotFound:
			response.BadRequest(w, "Owning account not found")
		case usecase.ErrClinicDoctorInactive:
			response.BadRequest(w, "Clinic doctor is not active")
		default:
			response.InternalServerError(w, "Failed to register patient")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", patient)
}

func (h *PatientHandler) ResolveSchedule(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	report, err := h.resolverUsecase.ResolveSchedule(r.Context(), patientID)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to resolve schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule resolved successfully", report)
}

func (h *PatientHandler) GetPatientVaccines(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	vaccines, err := h.vaccineUsecase.GetPatientVaccines(r.Context(), patientID)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to get vaccines")
		return
	}

	response.Success(w, http.StatusOK, "Vaccines retrieved successfully", vaccines)
}

func (h *PatientHandler) SetPatientActive(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.resolverUsecase.SetPatientActive(r.Context(), patientID, *req.Active); err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", nil)
}

func (h *PatientHandler) GetUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	appointments, err := h.vaccineUsecase.GetUpcomingAppointments(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get upcoming appointments")
		return
	}

	response.Success(w, http.StatusOK, "Upcoming appointments retrieved successfully", appointments)
}
