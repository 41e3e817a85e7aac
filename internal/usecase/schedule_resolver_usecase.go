package usecase

import (
	"context"
	"errors"
	"time"

	"vaccine-reminder-backend/internal/converter"
	"vaccine-reminder-backend/internal/delivery/dto"
	"vaccine-reminder-backend/internal/domain/entity"
	"vaccine-reminder-backend/internal/domain/gateway"
	"vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrOwnerNotFound        = errors.New("owning doctor account not found")
	ErrClinicDoctorInactive = errors.New("clinic doctor is not active")
	ErrInvalidDateOfBirth   = errors.New("invalid date of birth, use YYYY-MM-DD")
)

type ScheduleResolverUsecase interface {
	// RegisterPatient creates the patient, resolves its full vaccine
	// schedule and sends the welcome WhatsApp message.
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)

	// ResolveSchedule walks every template applicable to the patient and
	// get-or-creates the corresponding doses. Idempotent: re-running never
	// duplicates doses and never regresses a completed one.
	ResolveSchedule(ctx context.Context, patientID uuid.UUID) (*dto.ResolveReport, error)

	// SetPatientActive toggles the patient's active flag, which feeds the
	// analytics active-patient count. Scheduled doses stay in place and
	// keep receiving reminders.
	SetPatientActive(ctx context.Context, patientID uuid.UUID, active bool) error
}

// AnalyticsRefresher recomputes the dashboard summary after roster changes.
type AnalyticsRefresher interface {
	RefreshAnalytics(ctx context.Context) error
}

type scheduleResolverUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	patientRepo  repository.PatientRepository
	scheduleRepo repository.VaccineScheduleRepository
	vaccineRepo  repository.PatientVaccineRepository
	doctorRepo   repository.ClinicDoctorRepository
	whatsApp     gateway.WhatsAppSender
	analytics    AnalyticsRefresher
	now          func() time.Time
}

func NewScheduleResolverUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	scheduleRepo repository.VaccineScheduleRepository,
	vaccineRepo repository.PatientVaccineRepository,
	doctorRepo repository.ClinicDoctorRepository,
	whatsApp gateway.WhatsAppSender,
	analytics AnalyticsRefresher,
) ScheduleResolverUsecase {
	return &scheduleResolverUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		scheduleRepo: scheduleRepo,
		vaccineRepo:  vaccineRepo,
		doctorRepo:   doctorRepo,
		whatsApp:     whatsApp,
		analytics:    analytics,
		now:          time.Now,
	}
}

func (u *scheduleResolverUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, ErrInvalidDateOfBirth
	}

	owner, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.UserID)
	if err != nil {
		u.log.Warnf("Failed to find owner %s: %+v", req.UserID, err)
		return nil, err
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	if req.ClinicDoctorID != nil {
		doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), *req.ClinicDoctorID)
		if err != nil {
			u.log.Warnf("Failed to find clinic doctor %s: %+v", *req.ClinicDoctorID, err)
			return nil, err
		}
		if doctor == nil || doctor.IsActive == nil || !*doctor.IsActive {
			return nil, ErrClinicDoctorInactive
		}
	}

	patient := &entity.Patient{
		UserID:         req.UserID,
		ClinicDoctorID: req.ClinicDoctorID,
		ChildName:      req.ChildName,
		DateOfBirth:    dateOfBirth,
		MobileNumber:   req.MobileNumber,
		Gender:         req.Gender,
	}
	if err := u.patientRepo.Create(u.db.WithContext(ctx), patient); err != nil {
		u.log.Errorf("Failed to create patient: %+v", err)
		return nil, err
	}

	if _, err := u.ResolveSchedule(ctx, patient.ID); err != nil {
		u.log.Errorf("Failed to resolve schedule for new patient %s: %+v", patient.ID, err)
		return nil, err
	}

	// Reload with owner and clinic doctor for the welcome message.
	full, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patient.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload patient %s: %+v", patient.ID, err)
		return converter.PatientToResponse(patient), nil
	}

	u.sendWelcomeMessage(ctx, full)

	u.log.Infof("Patient registered: id=%s, child=%s", full.ID, full.ChildName)
	return converter.PatientToResponse(full), nil
}

func (u *scheduleResolverUsecase) ResolveSchedule(ctx context.Context, patientID uuid.UUID) (*dto.ResolveReport, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	schedules, err := u.scheduleRepo.FindApplicable(u.db.WithContext(ctx), patient.UserID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to load templates for patient %s: %+v", patientID, err)
		return nil, err
	}

	today := u.now()
	report := &dto.ResolveReport{}

	for i := range schedules {
		schedule := &schedules[i]

		dueDate, ok := u.dueDateFor(patient, schedule)
		if !ok {
			// Data-quality issue, not fatal: the rest of the catalog still
			// resolves.
			u.log.Warnf("Skipping template %d: unmapped age label %q", schedule.ID, schedule.Age)
			report.Skipped++
			continue
		}

		existing, err := u.vaccineRepo.FindByPatientAndSchedule(u.db.WithContext(ctx), patient.ID, schedule.ID)
		if err != nil {
			u.log.Warnf("Failed to check dose for template %d: %+v", schedule.ID, err)
			return nil, err
		}
		if existing != nil {
			// Due date was fixed at creation; never overwrite it, never
			// touch a completed dose.
			report.Existing++
			continue
		}

		classification := entity.ClassifyDose(&dueDate, false, today)
		dose := &entity.PatientVaccine{
			UserID:            patient.UserID,
			PatientID:         patient.ID,
			VaccineScheduleID: &schedule.ID,
			Status:            classification.Status,
			DueDate:           &dueDate,
		}
		if classification.AutoCompleted {
			completedOn := entity.DateOnly(today)
			source := entity.SourceAutoGenerated
			dose.IsCompleted = true
			dose.CompletedOn = &completedOn
			dose.CompletionSource = &source
		}

		if err := u.vaccineRepo.Create(u.db.WithContext(ctx), dose); err != nil {
			u.log.Warnf("Failed to create dose for template %d: %+v", schedule.ID, err)
			return nil, err
		}
		report.Created++
	}

	u.log.Infof("Schedule resolved for patient %s: created=%d, existing=%d, skipped=%d",
		patientID, report.Created, report.Existing, report.Skipped)
	return report, nil
}

// dueDateFor computes a template's due date for a patient: the explicit date
// for custom templates, otherwise DOB plus the age-bucket offset.
func (u *scheduleResolverUsecase) dueDateFor(patient *entity.Patient, schedule *entity.VaccineSchedule) (time.Time, bool) {
	if schedule.IsCustom() {
		return entity.DateOnly(*schedule.DueDate), true
	}
	offsetDays, ok := entity.AgeOffsetDays(schedule.Age)
	if !ok {
		return time.Time{}, false
	}
	return entity.DateOnly(patient.DateOfBirth).AddDate(0, 0, offsetDays), true
}

func (u *scheduleResolverUsecase) sendWelcomeMessage(ctx context.Context, patient *entity.Patient) {
	doctorName := u.doctorDisplayName(ctx, patient)
	if _, err := u.whatsApp.SendWelcome(ctx, patient.MobileNumber, patient.ChildName, doctorName); err != nil {
		// Registration already succeeded; the welcome message is best effort.
		u.log.Warnf("Failed to send welcome message to %s: %+v", patient.MobileNumber, err)
	}
}

func (u *scheduleResolverUsecase) doctorDisplayName(ctx context.Context, patient *entity.Patient) string {
	if patient.ClinicDoctor != nil && patient.ClinicDoctor.Name != "" {
		return patient.ClinicDoctor.Name
	}
	if patient.User.AccountType == entity.AccountTypeDoctor && patient.User.FullName != "" {
		return patient.User.FullName
	}
	return "Doctor"
}

func (u *scheduleResolverUsecase) SetPatientActive(ctx context.Context, patientID uuid.UUID, active bool) error {
	rows, err := u.patientRepo.SetActive(u.db.WithContext(ctx), patientID, active)
	if err != nil {
		u.log.Errorf("Failed to set patient %s active=%t: %+v", patientID, active, err)
		return err
	}
	if rows == 0 {
		// Either unknown or already in the requested state.
		patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		return nil
	}

	u.log.Infof("Patient %s active=%t", patientID, active)
	if u.analytics != nil {
		if err := u.analytics.RefreshAnalytics(ctx); err != nil {
			u.log.Warnf("Failed to refresh analytics: %+v", err)
		}
	}
	return nil
}
