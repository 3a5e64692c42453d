package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kmurzabekov/batchly/internal/mail"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// RecoveryCodeTTL is the absolute lifetime of an issued code. Expiry is
	// checked at consumption time; stale rows are not swept proactively.
	RecoveryCodeTTL = 10 * time.Minute

	recoveryCodeLength   = 6
	recoveryCodeAlphabet = "0123456789ABCDEF"
)

type RecoveryAccountRepository interface {
	FindByNormalizedEmail(email string) (models.Account, error)
	UpdatePasswordHash(accountID uint, passwordHash string) error
}

type RecoveryCodeStore interface {
	Replace(code *models.RecoveryCode) error
	FindByAccountAndCode(accountID uint, code string) (models.RecoveryCode, error)
	Delete(codeID uint) error
}

type RecoveryService struct {
	accounts RecoveryAccountRepository
	codes    RecoveryCodeStore
	notifier mail.Service
}

func NewRecoveryService(accounts RecoveryAccountRepository, codes RecoveryCodeStore, notifier mail.Service) *RecoveryService {
	return &RecoveryService{accounts: accounts, codes: codes, notifier: notifier}
}

// ResetRequest is the outcome of RequestReset. When the account does not
// exist the zero value is returned and the caller still reports success.
// FallbackCode is set only when delivery failed: the code stays valid and is
// surfaced to the caller as the alternate channel.
type ResetRequest struct {
	AccountFound bool
	Delivered    bool
	FallbackCode string
}

// RequestReset issues a fresh one-time code for the address. Any prior codes
// for the account are invalidated first (last code wins). Delivery failure
// does not abort the flow.
func (svc *RecoveryService) RequestReset(email string) (ResetRequest, error) {
	account, err := svc.accounts.FindByNormalizedEmail(NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ResetRequest{}, nil
	}
	if err != nil {
		return ResetRequest{}, err
	}

	code, err := security.RandomString(recoveryCodeLength, recoveryCodeAlphabet)
	if err != nil {
		return ResetRequest{}, err
	}

	recoveryCode := models.RecoveryCode{
		AccountID: account.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(RecoveryCodeTTL),
	}
	if err := svc.codes.Replace(&recoveryCode); err != nil {
		return ResetRequest{}, err
	}

	body := fmt.Sprintf(
		"Your one-time password reset code is: %s. It is valid for %d minutes.",
		code, int(RecoveryCodeTTL.Minutes()),
	)
	if err := svc.notifier.Send(account.Email, "Password Reset Code", body); err != nil {
		log.Printf("recovery code delivery to %s failed: %v", account.Email, err)
		return ResetRequest{AccountFound: true, Delivered: false, FallbackCode: code}, nil
	}
	return ResetRequest{AccountFound: true, Delivered: true}, nil
}

// ConsumeReset validates a code and sets the new password. The code is
// single-use: it is deleted after a successful reset. A weak password leaves
// the code intact for another attempt.
func (svc *RecoveryService) ConsumeReset(email string, code string, newPassword string) error {
	account, err := svc.accounts.FindByNormalizedEmail(NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidOrExpiredCode
	}
	if err != nil {
		return err
	}

	normalizedCode := strings.ToUpper(strings.TrimSpace(code))
	recoveryCode, err := svc.codes.FindByAccountAndCode(account.ID, normalizedCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidOrExpiredCode
	}
	if err != nil {
		return err
	}
	if time.Now().After(recoveryCode.ExpiresAt) {
		return ErrInvalidOrExpiredCode
	}

	if err := ValidatePasswordLength(newPassword); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := svc.accounts.UpdatePasswordHash(account.ID, string(passwordHash)); err != nil {
		return err
	}
	return svc.codes.Delete(recoveryCode.ID)
}
