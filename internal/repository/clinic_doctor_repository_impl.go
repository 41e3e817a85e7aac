package repository

import (
	"errors"

	"vaccine-reminder-backend/internal/domain/entity"
	domainRepo "vaccine-reminder-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicDoctorRepository struct{}

func NewClinicDoctorRepository() domainRepo.ClinicDoctorRepository {
	return &clinicDoctorRepository{}
}

func (r *clinicDoctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ClinicDoctor, error) {
	var doctor entity.ClinicDoctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}
