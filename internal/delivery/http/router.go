package http

import (
	"net/http"

	"vaccine-reminder-backend/internal/delivery/http/handler"
	"vaccine-reminder-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	patientHandler     *handler.PatientHandler
	vaccineHandler     *handler.VaccineHandler
	jobsHandler        *handler.JobsHandler
	adminKeyMiddleware *middleware.AdminKeyMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	vaccineHandler *handler.VaccineHandler,
	jobsHandler *handler.JobsHandler,
	adminKeyMiddleware *middleware.AdminKeyMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		patientHandler:     patientHandler,
		vaccineHandler:     vaccineHandler,
		jobsHandler:        jobsHandler,
		adminKeyMiddleware: adminKeyMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient registration and schedule
	api.HandleFunc("/patients", r.patientHandler.RegisterPatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}/resolve", r.patientHandler.ResolveSchedule).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}/vaccines", r.patientHandler.GetPatientVaccines).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}/vaccines", r.vaccineHandler.AddCustomVaccine).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}/active", r.patientHandler.SetPatientActive).Methods(http.MethodPatch)

	// Dose actions
	api.HandleFunc("/vaccines/{id}/complete", r.vaccineHandler.MarkCompleted).Methods(http.MethodPatch)
	api.HandleFunc("/vaccines/{id}/pending", r.vaccineHandler.MarkPending).Methods(http.MethodPatch)

	// Doctor views
	api.HandleFunc("/doctors/{id}/appointments", r.patientHandler.GetUpcomingAppointments).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/billing", r.jobsHandler.GetDoctorBilling).Methods(http.MethodGet)

	// Ops endpoints (admin key)
	jobs := api.PathPrefix("/jobs").Subrouter()
	jobs.Use(r.adminKeyMiddleware.Authenticate)
	jobs.HandleFunc("/reminder-sweep", r.jobsHandler.TriggerReminderSweep).Methods(http.MethodPost)
	jobs.HandleFunc("/missed-dose-sweep", r.jobsHandler.TriggerMissedDoseSweep).Methods(http.MethodPost)
	jobs.HandleFunc("/doctors/{id}/recompute-billing", r.jobsHandler.RecomputeBilling).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
