package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	SetActive(db *gorm.DB, id uuid.UUID, active bool) (int64, error)
	CountActive(db *gorm.DB) (int64, error)
}
