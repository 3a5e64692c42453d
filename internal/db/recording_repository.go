package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type RecordingRepository struct {
	database *gorm.DB
}

func NewRecordingRepository(database *gorm.DB) *RecordingRepository {
	return &RecordingRepository{database: database}
}

func (repo *RecordingRepository) FindByID(recordingID uint) (models.Recording, error) {
	var recording models.Recording
	if err := repo.database.First(&recording, recordingID).Error; err != nil {
		return models.Recording{}, err
	}
	return recording, nil
}

func (repo *RecordingRepository) FindByBatchAndFilename(batchID uint, filename string) (models.Recording, error) {
	var recording models.Recording
	if err := repo.database.
		Where("batch_id = ? AND filename = ?", batchID, filename).
		First(&recording).Error; err != nil {
		return models.Recording{}, err
	}
	return recording, nil
}

// ListByBatchOrdered returns recordings in insertion order. Lesson order is
// id ascending; nothing else sorts recordings.
func (repo *RecordingRepository) ListByBatchOrdered(batchID uint) ([]models.Recording, error) {
	recordings := make([]models.Recording, 0)
	if err := repo.database.Where("batch_id = ?", batchID).
		Order("id ASC").Find(&recordings).Error; err != nil {
		return nil, err
	}
	return recordings, nil
}

func (repo *RecordingRepository) CountByBatch(batchID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Recording{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *RecordingRepository) CountByTrainerProfile(trainerID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Recording{}).
		Where("batch_id IN (?)", repo.database.Model(&models.Batch{}).
			Select("id").Where("trainer_profile_id = ?", trainerID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *RecordingRepository) Create(recording *models.Recording) error {
	return repo.database.Create(recording).Error
}

// DeleteWithProgress removes a recording and any progress rows pointing at it.
func (repo *RecordingRepository) DeleteWithProgress(recordingID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recording_id = ?", recordingID).
			Delete(&models.ProgressRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recording{}, recordingID).Error
	})
}
