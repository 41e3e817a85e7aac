package repository

import (
	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type notificationLogRepository struct{}

func NewNotificationLogRepository() domainRepo.NotificationLogRepository {
	return &notificationLogRepository{}
}

func (r *notificationLogRepository) Create(db *gorm.DB, log *entity.NotificationLog) error {
	return db.Create(log).Error
}
