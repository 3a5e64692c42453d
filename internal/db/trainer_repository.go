package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type TrainerRepository struct {
	database *gorm.DB
}

func NewTrainerRepository(database *gorm.DB) *TrainerRepository {
	return &TrainerRepository{database: database}
}

func (repo *TrainerRepository) FindByID(trainerID uint) (models.TrainerProfile, error) {
	var trainer models.TrainerProfile
	if err := repo.database.First(&trainer, trainerID).Error; err != nil {
		return models.TrainerProfile{}, err
	}
	return trainer, nil
}

func (repo *TrainerRepository) FindByNormalizedEmail(email string) (models.TrainerProfile, error) {
	var trainer models.TrainerProfile
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&trainer).Error; err != nil {
		return models.TrainerProfile{}, err
	}
	return trainer, nil
}

func (repo *TrainerRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.TrainerProfile{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *TrainerRepository) List() ([]models.TrainerProfile, error) {
	trainers := make([]models.TrainerProfile, 0)
	if err := repo.database.Order("id ASC").Find(&trainers).Error; err != nil {
		return nil, err
	}
	return trainers, nil
}

func (repo *TrainerRepository) Save(trainer *models.TrainerProfile) error {
	return repo.database.Save(trainer).Error
}

// CreatePaired creates the trainer profile and its login account in one
// transaction so a failure cannot leave an orphan half of the pair.
func (repo *TrainerRepository) CreatePaired(trainer *models.TrainerProfile, account *models.Account) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trainer).Error; err != nil {
			return err
		}
		return tx.Create(account).Error
	})
}

// DeletePaired removes the trainer profile and its paired account, and
// unassigns the trainer from any batches, all in one transaction.
func (repo *TrainerRepository) DeletePaired(trainerID uint, trainerEmail string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Batch{}).
			Where("trainer_profile_id = ?", trainerID).
			Update("trainer_profile_id", nil).Error; err != nil {
			return err
		}
		if err := tx.
			Where("lower(trim(email)) = ? AND role = ?", trainerEmail, models.RoleTrainer).
			Delete(&models.Account{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TrainerProfile{}, trainerID).Error
	})
}
