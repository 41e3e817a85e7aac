package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VaccineScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.VaccineSchedule) error
	FindByID(db *gorm.DB, id int) (*entity.VaccineSchedule, error)

	// FindApplicable returns the templates that apply to a patient:
	// admin-global rows, rows owned by the patient's doctor account, and the
	// patient's own custom rows.
	FindApplicable(db *gorm.DB, userID uuid.UUID, patientID uuid.UUID) ([]entity.VaccineSchedule, error)
}
