package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	CountActiveDoctors(db *gorm.DB) (int64, error)
}
