package repository

import (
	"time"

	"vaccine-reminder-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLogRepository interface {
	Create(db *gorm.DB, log *entity.ReminderLog) error

	// CountSuccessByDoctor is the authoritative per-message count for
	// billing: success rows for the doctor created within [from, to).
	CountSuccessByDoctor(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error)
}
