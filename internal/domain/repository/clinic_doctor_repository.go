package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicDoctorRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicDoctor, error)
}
