package repository

import (
	"errors"

	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type vaccineScheduleRepository struct{}

func NewVaccineScheduleRepository() domainRepo.VaccineScheduleRepository {
	return &vaccineScheduleRepository{}
}

func (r *vaccineScheduleRepository) Create(db *gorm.DB, schedule *entity.VaccineSchedule) error {
	return db.Create(schedule).Error
}

func (r *vaccineScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.VaccineSchedule, error) {
	var schedule entity.VaccineSchedule
	err := db.Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *vaccineScheduleRepository) FindApplicable(db *gorm.DB, userID uuid.UUID, patientID uuid.UUID) ([]entity.VaccineSchedule, error) {
	var schedules []entity.VaccineSchedule
	err := db.Where("(user_id IS NULL AND patient_id IS NULL) OR (user_id = ? AND patient_id IS NULL) OR patient_id = ?",
		userID, patientID).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}
