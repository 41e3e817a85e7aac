package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type NotificationLogRepository interface {
	Create(db *gorm.DB, log *entity.NotificationLog) error
}
