package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type RecoveryCodeRepository struct {
	database *gorm.DB
}

func NewRecoveryCodeRepository(database *gorm.DB) *RecoveryCodeRepository {
	return &RecoveryCodeRepository{database: database}
}

// Replace deletes every outstanding code for the account and stores the new
// one in the same transaction. Last code wins: a concurrent reset request
// never observes a state with two live codes.
func (repo *RecoveryCodeRepository) Replace(code *models.RecoveryCode) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", code.AccountID).
			Delete(&models.RecoveryCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (repo *RecoveryCodeRepository) FindByAccountAndCode(accountID uint, code string) (models.RecoveryCode, error) {
	var recoveryCode models.RecoveryCode
	if err := repo.database.
		Where("account_id = ? AND code = ?", accountID, code).
		First(&recoveryCode).Error; err != nil {
		return models.RecoveryCode{}, err
	}
	return recoveryCode, nil
}

func (repo *RecoveryCodeRepository) Delete(codeID uint) error {
	return repo.database.Delete(&models.RecoveryCode{}, codeID).Error
}
