package usecase

import (
	"context"
	"errors"
	"time"

	"vaccine-reminder-backend/internal/converter"
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrVaccineNotFound         = errors.New("patient vaccine not found")
	ErrAlreadyCompleted        = errors.New("vaccine is already marked as completed")
	ErrAlreadyPending          = errors.New("vaccine is already pending")
	ErrInvalidCompletionSource = errors.New("invalid completion source")
	ErrHospitalConfirmed       = errors.New("hospital-confirmed completion cannot be reopened")
	ErrInvalidDueDate          = errors.New("invalid due date, use YYYY-MM-DD")
)

type PatientVaccineUsecase interface {
	// GetPatientVaccines returns a patient's doses grouped by status,
	// restamped against today before being returned.
	GetPatientVaccines(ctx context.Context, patientID uuid.UUID) (*dto.CategorizedVaccinesResponse, error)

	// GetUpcomingAppointments lists a doctor's incomplete upcoming doses
	// ordered by due date.
	GetUpcomingAppointments(ctx context.Context, userID uuid.UUID) ([]dto.PatientVaccineResponse, error)

	// MarkCompleted records an explicit completion with its source.
	MarkCompleted(ctx context.Context, id int64, req *dto.MarkCompletedRequest) (*dto.PatientVaccineResponse, error)

	// MarkPending reopens a dose. Hospital-confirmed completions stay closed.
	MarkPending(ctx context.Context, id int64) (*dto.PatientVaccineResponse, error)

	// AddCustomVaccine creates a patient-owned template with an explicit due
	// date and its dose in one transaction.
	AddCustomVaccine(ctx context.Context, patientID uuid.UUID, req *dto.AddCustomVaccineRequest) (*dto.PatientVaccineResponse, error)
}

type patientVaccineUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	vaccineRepo  repository.PatientVaccineRepository
	scheduleRepo repository.VaccineScheduleRepository
	now          func() time.Time
}

func NewPatientVaccineUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	vaccineRepo repository.PatientVaccineRepository,
	scheduleRepo repository.VaccineScheduleRepository,
) PatientVaccineUsecase {
	return &patientVaccineUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		vaccineRepo:  vaccineRepo,
		scheduleRepo: scheduleRepo,
		now:          time.Now,
	}
}

func (u *patientVaccineUsecase) GetPatientVaccines(ctx context.Context, patientID uuid.UUID) (*dto.CategorizedVaccinesResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	vaccines, err := u.vaccineRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to load vaccines for patient %s: %+v", patientID, err)
		return nil, err
	}

	// Status is a function of today; every read re-stamps and persists the
	// transitions it observes.
	today := u.now()
	for i := range vaccines {
		if vaccines[i].Restamp(today) {
			if err := u.vaccineRepo.Save(u.db.WithContext(ctx), &vaccines[i]); err != nil {
				u.log.Warnf("Failed to restamp dose %d: %+v", vaccines[i].ID, err)
			}
		}
	}

	return converter.CategorizeVaccines(vaccines), nil
}

func (u *patientVaccineUsecase) GetUpcomingAppointments(ctx context.Context, userID uuid.UUID) ([]dto.PatientVaccineResponse, error) {
	vaccines, err := u.vaccineRepo.FindUpcomingByUser(u.db.WithContext(ctx), userID, u.now())
	if err != nil {
		u.log.Warnf("Failed to load upcoming appointments for user %s: %+v", userID, err)
		return nil, err
	}
	return converter.PatientVaccinesToResponses(vaccines), nil
}

func (u *patientVaccineUsecase) MarkCompleted(ctx context.Context, id int64, req *dto.MarkCompletedRequest) (*dto.PatientVaccineResponse, error) {
	source := entity.CompletionSource(req.CompletionSource)
	if !isValidCompletionSource(source) {
		return nil, ErrInvalidCompletionSource
	}

	vaccine, err := u.vaccineRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if vaccine == nil {
		return nil, ErrVaccineNotFound
	}
	if vaccine.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	completedOn := entity.DateOnly(u.now())
	vaccine.IsCompleted = true
	vaccine.Status = entity.VaccineStatusCompleted
	vaccine.CompletedOn = &completedOn
	vaccine.CompletionSource = &source

	if err := u.vaccineRepo.Save(u.db.WithContext(ctx), vaccine); err != nil {
		u.log.Warnf("Failed to mark dose %d completed: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Dose %d marked completed, source=%s", id, source)
	return converter.PatientVaccineToResponse(vaccine), nil
}

func (u *patientVaccineUsecase) MarkPending(ctx context.Context, id int64) (*dto.PatientVaccineResponse, error) {
	vaccine, err := u.vaccineRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if vaccine == nil {
		return nil, ErrVaccineNotFound
	}
	if !vaccine.IsCompleted && vaccine.Status == entity.VaccineStatusPending {
		return nil, ErrAlreadyPending
	}
	if vaccine.CompletionSource != nil && isHospitalConfirmed(*vaccine.CompletionSource) {
		return nil, ErrHospitalConfirmed
	}

	vaccine.IsCompleted = false
	vaccine.Status = entity.VaccineStatusPending
	vaccine.CompletedOn = nil
	vaccine.CompletionSource = nil

	if err := u.vaccineRepo.Save(u.db.WithContext(ctx), vaccine); err != nil {
		u.log.Warnf("Failed to mark dose %d pending: %+v", id, err)
		return nil, err
	}

	u.log.Infof("Dose %d reopened as pending", id)
	return converter.PatientVaccineToResponse(vaccine), nil
}

func (u *patientVaccineUsecase) AddCustomVaccine(ctx context.Context, patientID uuid.UUID, req *dto.AddCustomVaccineRequest) (*dto.PatientVaccineResponse, error) {
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	age := req.Age
	if age == "" {
		age = "Custom"
	}

	var dose *entity.PatientVaccine
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		schedule := &entity.VaccineSchedule{
			UserID:    &req.UserID,
			PatientID: &patientID,
			Age:       age,
			DueDate:   &dueDate,
			Vaccine:   req.Vaccine,
		}
		if err := u.scheduleRepo.Create(tx, schedule); err != nil {
			return err
		}

		due := entity.DateOnly(dueDate)
		classification := entity.ClassifyDose(&due, false, u.now())
		dose = &entity.PatientVaccine{
			UserID:            req.UserID,
			PatientID:         patientID,
			VaccineScheduleID: &schedule.ID,
			CustomVaccine:     &req.Vaccine,
			Status:            classification.Status,
			DueDate:           &due,
		}
		if classification.AutoCompleted {
			completedOn := entity.DateOnly(u.now())
			source := entity.SourceAutoGenerated
			dose.IsCompleted = true
			dose.CompletedOn = &completedOn
			dose.CompletionSource = &source
		}
		return u.vaccineRepo.Create(tx, dose)
	})
	if err != nil {
		u.log.Warnf("Failed to add custom vaccine for patient %s: %+v", patientID, err)
		return nil, err
	}

	u.log.Infof("Custom vaccine %q added for patient %s", req.Vaccine, patientID)
	return converter.PatientVaccineToResponse(dose), nil
}

func isValidCompletionSource(source entity.CompletionSource) bool {
	for _, valid := range entity.ValidCompletionSources {
		if source == valid {
			return true
		}
	}
	return false
}

// isHospitalConfirmed reports completions backed by an external hospital
// record: those cannot be reopened from the app.
func isHospitalConfirmed(source entity.CompletionSource) bool {
	return source == entity.SourceGovernmentHospital || source == entity.SourceOtherPrivateHospital
}
