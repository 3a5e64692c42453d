package db

import (
	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

type SupportQueryRepository struct {
	database *gorm.DB
}

func NewSupportQueryRepository(database *gorm.DB) *SupportQueryRepository {
	return &SupportQueryRepository{database: database}
}

func (repo *SupportQueryRepository) FindByID(queryID uint) (models.SupportQuery, error) {
	var query models.SupportQuery
	if err := repo.database.Preload("Account").Preload("Batch").
		First(&query, queryID).Error; err != nil {
		return models.SupportQuery{}, err
	}
	return query, nil
}

func (repo *SupportQueryRepository) Create(query *models.SupportQuery) error {
	return repo.database.Create(query).Error
}

func (repo *SupportQueryRepository) UpdateStatus(queryID uint, status models.QueryStatus) error {
	return repo.database.Model(&models.SupportQuery{}).
		Where("id = ?", queryID).
		Update("status", status).Error
}

func (repo *SupportQueryRepository) CountByStatus(status models.QueryStatus) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.SupportQuery{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *SupportQueryRepository) ListByAccount(accountID uint) ([]models.SupportQuery, error) {
	queries := make([]models.SupportQuery, 0)
	if err := repo.database.Preload("Batch").
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}

// ListOpenForBatches returns open queries for the given batches, oldest
// first, the order a trainer works through them.
func (repo *SupportQueryRepository) ListOpenForBatches(batchIDs []uint) ([]models.SupportQuery, error) {
	queries := make([]models.SupportQuery, 0)
	if len(batchIDs) == 0 {
		return queries, nil
	}
	if err := repo.database.Preload("Account").Preload("Batch").
		Where("batch_id IN ? AND status = ?", batchIDs, models.QueryStatusOpen).
		Order("created_at ASC, id ASC").Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}

func (repo *SupportQueryRepository) ListAll() ([]models.SupportQuery, error) {
	queries := make([]models.SupportQuery, 0)
	if err := repo.database.Preload("Account").Preload("Batch").
		Order("created_at DESC, id DESC").Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}
