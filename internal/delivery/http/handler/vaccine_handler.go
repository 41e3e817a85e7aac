package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/usecase"
	"vaccine-reminder-backend/pkg/response"
	"vaccine-reminder-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type VaccineHandler struct {
	vaccineUsecase usecase.PatientVaccineUsecase
	validator      *validator.CustomValidator
}

func NewVaccineHandler(vaccineUsecase usecase.PatientVaccineUsecase, validator *validator.CustomValidator) *VaccineHandler {
	return &VaccineHandler{
		vaccineUsecase: vaccineUsecase,
		validator:      validator,
	}
}

func (h *VaccineHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid vaccine ID")
		return
	}

	var req dto.MarkCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vaccine, err := h.vaccineUsecase.MarkCompleted(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrVaccineNotFound:
			response.NotFound(w, "Vaccine not found")
		case usecase.ErrAlreadyCompleted:
			response.Conflict(w, "Vaccine is already completed")
		case usecase.ErrInvalidCompletionSource:
			response.BadRequest(w, "Invalid completion source")
		default:
			response.InternalServerError(w, "Failed to mark vaccine completed")
		}
		return
	}

	response.Success(w, http.StatusOK, "Vaccine marked completed", vaccine)
}

func (h *VaccineHandler) MarkPending(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid vaccine ID")
		return
	}

	vaccine, err := h.vaccineUsecase.MarkPending(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrVaccineNotFound:
			response.NotFound(w, "Vaccine not found")
		case usecase.ErrAlreadyPending:
			response.Conflict(w, "Vaccine is already pending")
		case usecase.ErrHospitalConfirmed:
			response.Conflict(w, "Hospital-confirmed completion cannot be reopened")
		default:
			response.InternalServerError(w, "Failed to mark vaccine pending")
		}
		return
	}

	response.Success(w, http.StatusOK, "Vaccine marked pending", vaccine)
}

func (h *VaccineHandler) AddCustomVaccine(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.AddCustomVaccineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	vaccine, err := h.vaccineUsecase.AddCustomVaccine(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidDueDate:
			response.BadRequest(w, "Invalid due date")
		default:
			response.InternalServerError(w, "Failed to add custom vaccine")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Custom vaccine added", vaccine)
}
