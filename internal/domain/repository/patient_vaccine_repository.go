package repository

import (
	"time"

	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientVaccineRepository interface {
	Create(db *gorm.DB, vaccine *entity.PatientVaccine) error
	Save(db *gorm.DB, vaccine *entity.PatientVaccine) error
	FindByID(db *gorm.DB, id int64) (*entity.PatientVaccine, error)
	FindByPatientAndSchedule(db *gorm.DB, patientID uuid.UUID, scheduleID int) (*entity.PatientVaccine, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.PatientVaccine, error)
	FindUpcomingByUser(db *gorm.DB, userID uuid.UUID, today time.Time) ([]entity.PatientVaccine, error)

	// FindUpcomingDueOn returns incomplete Upcoming doses whose due date is
	// exactly one of the given dates, with patient, template and owner
	// preloaded. Used by the upcoming-reminder sweep.
	FindUpcomingDueOn(db *gorm.DB, dueDates []time.Time) ([]entity.PatientVaccine, error)

	// FindMissedUnnotified returns incomplete doses past due with no
	// notification claim, with patient, template and owner preloaded.
	FindMissedUnnotified(db *gorm.DB, today time.Time) ([]entity.PatientVaccine, error)

	// ClaimNotifications atomically flips notification_sent false→true for
	// exactly the given dose ids inside one transaction. If any dose was
	// already claimed the whole transaction rolls back and the number of rows
	// another actor got to first is reflected by a count smaller than
	// len(ids). The returned count equals len(ids) only on full claim.
	ClaimNotifications(db *gorm.DB, ids []int64, at time.Time) (int64, error)

	// ReleaseNotifications undoes a claim after a failed send so a future
	// sweep can retry.
	ReleaseNotifications(db *gorm.DB, ids []int64) error
}
