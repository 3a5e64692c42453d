package db

import (
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type AccountRepository struct {
	database *gorm.DB
}

func NewAccountRepository(database *gorm.DB) *AccountRepository {
	return &AccountRepository{database: database}
}

func (repo *AccountRepository) FindByID(accountID uint) (models.Account, error) {
	var account models.Account
	if err := repo.database.First(&account, accountID).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (repo *AccountRepository) FindByNormalizedEmail(email string) (models.Account, error) {
	var account models.Account
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&account).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (repo *AccountRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Account{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// ExistsOtherWithEmail reports whether another account already holds the
// address, for email-change uniqueness checks.
func (repo *AccountRepository) ExistsOtherWithEmail(email string, excludeID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Account{}).
		Where("lower(trim(email)) = ? AND id <> ?", email, excludeID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *AccountRepository) AdminExists() (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Account{}).
		Where("role = ?", models.RoleAdmin).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *AccountRepository) Create(account *models.Account) error {
	return repo.database.Create(account).Error
}

func (repo *AccountRepository) Save(account *models.Account) error {
	return repo.database.Save(account).Error
}

func (repo *AccountRepository) UpdatePasswordHash(accountID uint, passwordHash string) error {
	return repo.database.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("password_hash", passwordHash).Error
}

func (repo *AccountRepository) ListByRole(role models.Role) ([]models.Account, error) {
	accounts := make([]models.Account, 0)
	if err := repo.database.Where("role = ?", role).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (repo *AccountRepository) CountByRoleCreatedSince(role models.Role, since time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Account{}).
		Where("role = ? AND created_at >= ?", role, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteStudentCascade removes a student account together with its
// enrollments and progress records.
func (repo *AccountRepository) DeleteStudentCascade(accountID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.ProgressRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, accountID).Error
	})
}
