package services

import (
	"errors"
	"strings"
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// SessionTTL bounds how long an issued session token stays valid.
	SessionTTL = 7 * 24 * time.Hour

	sessionTokenLength   = 43
	sessionTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type IdentityAccountRepository interface {
	FindByID(accountID uint) (models.Account, error)
	FindByNormalizedEmail(email string) (models.Account, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	AdminExists() (bool, error)
	Create(account *models.Account) error
}

// SessionStore holds opaque-token sessions server-side. Implementations are
// injected; handlers never touch a global.
type SessionStore interface {
	Set(token string, accountID uint, expiresAt time.Time) error
	Get(token string, now time.Time) (uint, bool, error)
	Invalidate(token string) error
}

type IdentityService struct {
	accounts IdentityAccountRepository
	sessions SessionStore
}

func NewIdentityService(accounts IdentityAccountRepository, sessions SessionStore) *IdentityService {
	return &IdentityService{accounts: accounts, sessions: sessions}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a salted password hash. Only one admin
// account may ever be created this way; the invariant is enforced at
// registration time only.
func (svc *IdentityService) Register(name string, email string, password string, role models.Role) (models.Account, error) {
	email = NormalizeEmail(email)

	taken, err := svc.accounts.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.Account{}, err
	}
	if taken {
		return models.Account{}, ErrDuplicateAddress
	}

	if role == models.RoleAdmin {
		adminExists, err := svc.accounts.AdminExists()
		if err != nil {
			return models.Account{}, err
		}
		if adminExists {
			return models.Account{}, ErrAdminAlreadyExists
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, err
	}

	account := models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := svc.accounts.Create(&account); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// Authenticate checks credentials and, on success, issues an opaque session
// token. A missing account and a wrong password collapse into the same
// ErrInvalidCredentials.
func (svc *IdentityService) Authenticate(email string, password string) (models.Account, string, error) {
	account, err := svc.accounts.FindByNormalizedEmail(NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return models.Account{}, "", ErrInvalidCredentials
	}

	token, err := security.RandomString(sessionTokenLength, sessionTokenAlphabet)
	if err != nil {
		return models.Account{}, "", err
	}
	if err := svc.sessions.Set(token, account.ID, time.Now().Add(SessionTTL)); err != nil {
		return models.Account{}, "", err
	}
	return account, token, nil
}

// ResolveSession maps a token to its account. An absent, expired, or stale
// session resolves to nil: the caller treats nil as anonymous.
func (svc *IdentityService) ResolveSession(token string) (*models.Account, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	accountID, ok, err := svc.sessions.Get(token, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	account, err := svc.accounts.FindByID(accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (svc *IdentityService) EndSession(token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return svc.sessions.Invalidate(token)
}
