package db

import (
	"errors"
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	database *gorm.DB
}

func NewProgressRepository(database *gorm.DB) *ProgressRepository {
	return &ProgressRepository{database: database}
}

// Upsert marks a recording completed for a student. A missing row is created;
// an existing one is overwritten with a fresh timestamp either way, so
// re-marking always bumps CompletedAt.
func (repo *ProgressRepository) Upsert(accountID uint, recordingID uint, completedAt time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var record models.ProgressRecord
		err := tx.Where("account_id = ? AND recording_id = ?", accountID, recordingID).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.ProgressRecord{
				AccountID:   accountID,
				RecordingID: recordingID,
				Completed:   true,
				CompletedAt: &completedAt,
			}
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&record).Updates(map[string]any{
			"completed":    true,
			"completed_at": completedAt,
		}).Error
	})
}

func (repo *ProgressRepository) CountCompletedInBatch(accountID uint, batchID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.ProgressRecord{}).
		Where("account_id = ? AND completed = ?", accountID, true).
		Where("recording_id IN (?)", repo.database.Model(&models.Recording{}).
			Select("id").Where("batch_id = ?", batchID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CompletedRecordingIDs returns the set of recordings in a batch the student
// has completed.
func (repo *ProgressRepository) CompletedRecordingIDs(accountID uint, batchID uint) (map[uint]bool, error) {
	ids := make([]uint, 0)
	if err := repo.database.Model(&models.ProgressRecord{}).
		Where("account_id = ? AND completed = ?", accountID, true).
		Where("recording_id IN (?)", repo.database.Model(&models.Recording{}).
			Select("id").Where("batch_id = ?", batchID)).
		Pluck("recording_id", &ids).Error; err != nil {
		return nil, err
	}

	completed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		completed[id] = true
	}
	return completed, nil
}
