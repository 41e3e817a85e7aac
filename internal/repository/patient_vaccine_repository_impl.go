package repository

import (
	"errors"
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errPartialClaim aborts the claim transaction when another actor already
// holds at least one of the requested doses. Never returned to callers.
var errPartialClaim = errors.New("partial notification claim")

type patientVaccineRepository struct{}

func NewPatientVaccineRepository() domainRepo.PatientVaccineRepository {
	return &patientVaccineRepository{}
}

func (r *patientVaccineRepository) Create(db *gorm.DB, vaccine *entity.PatientVaccine) error {
	return db.Create(vaccine).Error
}

func (r *patientVaccineRepository) Save(db *gorm.DB, vaccine *entity.PatientVaccine) error {
	return db.Save(vaccine).Error
}

func (r *patientVaccineRepository) FindByID(db *gorm.DB, id int64) (*entity.PatientVaccine, error) {
	var vaccine entity.PatientVaccine
	err := db.Preload("Patient").Preload("VaccineSchedule").Where("id = ?", id).First(&vaccine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vaccine, nil
}

func (r *patientVaccineRepository) FindByPatientAndSchedule(db *gorm.DB, patientID uuid.UUID, scheduleID int) (*entity.PatientVaccine, error) {
	var vaccine entity.PatientVaccine
	err := db.Where("patient_id = ? AND vaccine_schedule_id = ?", patientID, scheduleID).
		First(&vaccine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vaccine, nil
}

func (r *patientVaccineRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.PatientVaccine, error) {
	var vaccines []entity.PatientVaccine
	err := db.Preload("VaccineSchedule").
		Where("patient_id = ?", patientID).
		Order("due_date ASC").
		Find(&vaccines).Error
	if err != nil {
		return nil, err
	}
	return vaccines, nil
}

func (r *patientVaccineRepository) FindUpcomingByUser(db *gorm.DB, userID uuid.UUID, today time.Time) ([]entity.PatientVaccine, error) {
	var vaccines []entity.PatientVaccine
	err := db.Preload("Patient").Preload("VaccineSchedule").
		Where("user_id = ? AND status = ? AND is_completed = false AND due_date >= ?",
			userID, entity.VaccineStatusUpcoming, entity.DateOnly(today)).
		Order("due_date ASC").
		Find(&vaccines).Error
	if err != nil {
		return nil, err
	}
	return vaccines, nil
}

func (r *patientVaccineRepository) FindUpcomingDueOn(db *gorm.DB, dueDates []time.Time) ([]entity.PatientVaccine, error) {
	var vaccines []entity.PatientVaccine
	err := db.Preload("Patient").Preload("Patient.ClinicDoctor").Preload("VaccineSchedule").Preload("User").
		Where("status = ? AND is_completed = false AND due_date IN ?", entity.VaccineStatusUpcoming, dueDates).
		Find(&vaccines).Error
	if err != nil {
		return nil, err
	}
	return vaccines, nil
}

func (r *patientVaccineRepository) FindMissedUnnotified(db *gorm.DB, today time.Time) ([]entity.PatientVaccine, error) {
	var vaccines []entity.PatientVaccine
	err := db.Preload("Patient").Preload("VaccineSchedule").Preload("User").
		Where("due_date < ? AND is_completed = false AND notification_sent = false", entity.DateOnly(today)).
		Find(&vaccines).Error
	if err != nil {
		return nil, err
	}
	return vaccines, nil
}

// ClaimNotifications flips notification_sent false→true for exactly the given
// ids, counting affected rows: len(ids) = full claim, anything less means a
// concurrent actor got there first and the transaction is rolled back so no
// partial claim survives.
func (r *patientVaccineRepository) ClaimNotifications(db *gorm.DB, ids []int64, at time.Time) (int64, error) {
	var claimed int64
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.PatientVaccine{}).
			Where("id IN ? AND notification_sent = false", ids).
			Updates(map[string]interface{}{
				"notification_sent":    true,
				"notification_sent_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		claimed = result.RowsAffected
		if claimed != int64(len(ids)) {
			return errPartialClaim
		}
		return nil
	})
	if errors.Is(err, errPartialClaim) {
		return claimed, nil
	}
	if err != nil {
		return 0, err
	}
	return claimed, nil
}

func (r *patientVaccineRepository) ReleaseNotifications(db *gorm.DB, ids []int64) error {
	return db.Model(&entity.PatientVaccine{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"notification_sent":    false,
			"notification_sent_at": nil,
		}).Error
}
