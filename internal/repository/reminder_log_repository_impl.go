package repository

import (
	"time"

	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reminderLogRepository struct{}

func NewReminderLogRepository() domainRepo.ReminderLogRepository {
	return &reminderLogRepository{}
}

func (r *reminderLogRepository) Create(db *gorm.DB, log *entity.ReminderLog) error {
	return db.Create(log).Error
}

func (r *reminderLogRepository) CountSuccessByDoctor(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.ReminderLog{}).
		Where("doctor_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			doctorID, entity.DeliveryStatusSuccess, from, to).
		Count(&count).Error
	return count, err
}
