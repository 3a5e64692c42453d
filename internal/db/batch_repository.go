package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type BatchRepository struct {
	database *gorm.DB
}

func NewBatchRepository(database *gorm.DB) *BatchRepository {
	return &BatchRepository{database: database}
}

func (repo *BatchRepository) FindByID(batchID uint) (models.Batch, error) {
	var batch models.Batch
	if err := repo.database.Preload("TrainerProfile").First(&batch, batchID).Error; err != nil {
		return models.Batch{}, err
	}
	return batch, nil
}

func (repo *BatchRepository) ExistsByName(name string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Batch{}).
		Where("name = ?", name).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *BatchRepository) ExistsOtherWithName(name string, excludeID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Batch{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *BatchRepository) Create(batch *models.Batch) error {
	return repo.database.Create(batch).Error
}

func (repo *BatchRepository) Save(batch *models.Batch) error {
	return repo.database.Save(batch).Error
}

func (repo *BatchRepository) List() ([]models.Batch, error) {
	batches := make([]models.Batch, 0)
	if err := repo.database.Preload("TrainerProfile").Order("id ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (repo *BatchRepository) ListNewestFirst() ([]models.Batch, error) {
	batches := make([]models.Batch, 0)
	if err := repo.database.Preload("TrainerProfile").
		Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (repo *BatchRepository) ListByTrainerProfile(trainerID uint) ([]models.Batch, error) {
	batches := make([]models.Batch, 0)
	if err := repo.database.Preload("TrainerProfile").
		Where("trainer_profile_id = ?", trainerID).
		Order("id ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (repo *BatchRepository) ListUnassigned() ([]models.Batch, error) {
	batches := make([]models.Batch, 0)
	if err := repo.database.Where("trainer_profile_id IS NULL").
		Order("id ASC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (repo *BatchRepository) AssignTrainer(batchID uint, trainerID *uint) error {
	return repo.database.Model(&models.Batch{}).
		Where("id = ?", batchID).
		Update("trainer_profile_id", trainerID).Error
}

// DeleteCascade removes a batch with its enrollments, recordings, and the
// progress records hanging off those recordings. Blob cleanup is the
// caller's job; the datastore only owns rows.
func (repo *BatchRepository) DeleteCascade(batchID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"recording_id IN (?)",
			tx.Model(&models.Recording{}).Select("id").Where("batch_id = ?", batchID),
		).Delete(&models.ProgressRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("batch_id = ?", batchID).Delete(&models.Recording{}).Error; err != nil {
			return err
		}
		if err := tx.Where("batch_id = ?", batchID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Batch{}, batchID).Error
	})
}
