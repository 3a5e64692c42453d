package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	database *gorm.DB
}

func NewEnrollmentRepository(database *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{database: database}
}

func (repo *EnrollmentRepository) FindByID(enrollmentID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := repo.database.Preload("Account").Preload("Batch").
		First(&enrollment, enrollmentID).Error; err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (repo *EnrollmentRepository) ExistsByAccountAndBatch(accountID uint, batchID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Enrollment{}).
		Where("account_id = ? AND batch_id = ?", accountID, batchID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *EnrollmentRepository) Create(enrollment *models.Enrollment) error {
	return repo.database.Create(enrollment).Error
}

func (repo *EnrollmentRepository) Delete(enrollmentID uint) error {
	return repo.database.Delete(&models.Enrollment{}, enrollmentID).Error
}

func (repo *EnrollmentRepository) ListByAccount(accountID uint) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0)
	if err := repo.database.Preload("Batch").Preload("Batch.TrainerProfile").
		Where("account_id = ?", accountID).
		Order("id ASC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (repo *EnrollmentRepository) ListByBatchNewestFirst(batchID uint) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0)
	if err := repo.database.Preload("Account").
		Where("batch_id = ?", batchID).
		Order("enrolled_at DESC, id DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}
