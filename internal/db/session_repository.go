package db

import (
	"errors"
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
	"gorm.io/gorm"
)

// SessionRepository is the datastore-backed session store. It satisfies
// services.SessionStore and is injected into the identity service; there is
// no process-wide session state.
type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

func (repo *SessionRepository) Set(token string, accountID uint, expiresAt time.Time) error {
	session := models.Session{
		Token:     token,
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return repo.database.Create(&session).Error
}

// Get resolves a token to an account id. Expired rows are treated as absent
// and cleaned up opportunistically.
func (repo *SessionRepository) Get(token string, now time.Time) (uint, bool, error) {
	var session models.Session
	err := repo.database.Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if now.After(session.ExpiresAt) {
		_ = repo.database.Delete(&models.Session{}, session.ID).Error
		return 0, false, nil
	}
	return session.AccountID, true, nil
}

func (repo *SessionRepository) Invalidate(token string) error {
	return repo.database.Where("token = ?", token).Delete(&models.Session{}).Error
}
