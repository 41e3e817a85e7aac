package handler

import (
	"net/http"
	"time"

	"vaccine-reminder-backend/internal/converter"
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/service"
	"vaccine-reminder-backend/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// JobsHandler is the manual-trigger surface for the background jobs the
// scheduler runs on its own timer: reminder sweeps, missed-dose sweeps and
// billing recomputation.
type JobsHandler struct {
	scheduler *service.ReminderScheduler
	billing   *service.BillingService
}

func NewJobsHandler(scheduler *service.ReminderScheduler, billing *service.BillingService) *JobsHandler {
	return &JobsHandler{
		scheduler: scheduler,
		billing:   billing,
	}
}

func (h *JobsHandler) TriggerReminderSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduler.RunReminderSweep(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "Reminder sweep failed")
		return
	}
	response.Success(w, http.StatusOK, "Reminder sweep completed", report)
}

func (h *JobsHandler) TriggerMissedDoseSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduler.RunMissedDoseSweep(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "Missed-dose sweep failed")
		return
	}
	response.Success(w, http.StatusOK, "Missed-dose sweep completed", report)
}

func (h *JobsHandler) RecomputeBilling(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	if err := h.billing.RecomputeBilling(r.Context(), doctorID); err != nil {
		response.InternalServerError(w, "Failed to recompute billing")
		return
	}
	response.Success(w, http.StatusOK, "Billing recomputed", nil)
}

func (h *JobsHandler) GetDoctorBilling(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	ledgers, err := h.billing.GetDoctorBilling(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get billing")
		return
	}

	responses := converter.BillingLedgersToResponses(ledgers)
	response.Success(w, http.StatusOK, "Billing retrieved successfully", &dto.BillingListResponse{
		Ledgers: responses,
		Total:   len(responses),
	})
}
