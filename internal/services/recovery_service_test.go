package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kmurzabekov/batchly/internal/mail"
	"github.com/kmurzabekov/batchly/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRecoveryStore struct {
	accounts map[string]models.Account
	codes    map[uint]models.RecoveryCode
	nextID   uint
	updated  map[uint]string
}

func newFakeRecoveryStore() *fakeRecoveryStore {
	return &fakeRecoveryStore{
		accounts: map[string]models.Account{},
		codes:    map[uint]models.RecoveryCode{},
		updated:  map[uint]string{},
	}
}

func (store *fakeRecoveryStore) addAccount(id uint, email string) {
	store.accounts[email] = models.Account{ID: id, Email: email, PasswordHash: "old-hash"}
}

func (store *fakeRecoveryStore) FindByNormalizedEmail(email string) (models.Account, error) {
	account, ok := store.accounts[email]
	if !ok {
		return models.Account{}, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (store *fakeRecoveryStore) UpdatePasswordHash(accountID uint, passwordHash string) error {
	store.updated[accountID] = passwordHash
	return nil
}

func (store *fakeRecoveryStore) Replace(code *models.RecoveryCode) error {
	for id, existing := range store.codes {
		if existing.AccountID == code.AccountID {
			delete(store.codes, id)
		}
	}
	store.nextID++
	code.ID = store.nextID
	store.codes[code.ID] = *code
	return nil
}

func (store *fakeRecoveryStore) FindByAccountAndCode(accountID uint, code string) (models.RecoveryCode, error) {
	for _, existing := range store.codes {
		if existing.AccountID == accountID && existing.Code == code {
			return existing, nil
		}
	}
	return models.RecoveryCode{}, gorm.ErrRecordNotFound
}

func (store *fakeRecoveryStore) Delete(codeID uint) error {
	delete(store.codes, codeID)
	return nil
}

func (store *fakeRecoveryStore) codesFor(accountID uint) []models.RecoveryCode {
	var matched []models.RecoveryCode
	for _, code := range store.codes {
		if code.AccountID == accountID {
			matched = append(matched, code)
		}
	}
	return matched
}

func TestRequestResetUnknownAddressRevealsNothing(t *testing.T) {
	store := newFakeRecoveryStore()
	recorder := &mail.RecorderService{}
	recovery := NewRecoveryService(store, store, recorder)

	result, err := recovery.RequestReset("nobody@example.com")
	if err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if result.AccountFound || result.Delivered || result.FallbackCode != "" {
		t.Fatalf("expected zero-value result for unknown address, got %+v", result)
	}
	if len(recorder.Sent) != 0 {
		t.Fatalf("expected no mail for unknown address, got %d", len(recorder.Sent))
	}
}

func TestRequestResetIssuesSixCharUppercaseHexCode(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recorder := &mail.RecorderService{}
	recovery := NewRecoveryService(store, store, recorder)

	result, err := recovery.RequestReset("Student@Example.com ")
	if err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if !result.AccountFound || !result.Delivered {
		t.Fatalf("expected delivered result, got %+v", result)
	}

	codes := store.codesFor(1)
	if len(codes) != 1 {
		t.Fatalf("expected one stored code, got %d", len(codes))
	}
	code := codes[0].Code
	if len(code) != 6 {
		t.Fatalf("expected 6-character code, got %q", code)
	}
	for _, r := range code {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			t.Fatalf("expected uppercase hex code, got %q", code)
		}
	}
	if remaining := time.Until(codes[0].ExpiresAt); remaining <= 0 || remaining > RecoveryCodeTTL {
		t.Fatalf("expected expiry within %v, got %v", RecoveryCodeTTL, remaining)
	}

	if len(recorder.Sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(recorder.Sent))
	}
	if !strings.Contains(recorder.Sent[0].Body, code) {
		t.Fatalf("expected mail body to carry the code, got %q", recorder.Sent[0].Body)
	}
}

func TestRequestResetLastCodeWins(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recovery := NewRecoveryService(store, store, &mail.RecorderService{})

	if _, err := recovery.RequestReset("student@example.com"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	firstCode := store.codesFor(1)[0].Code

	if _, err := recovery.RequestReset("student@example.com"); err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	codes := store.codesFor(1)
	if len(codes) != 1 {
		t.Fatalf("expected the old code to be replaced, got %d codes", len(codes))
	}

	err := recovery.ConsumeReset("student@example.com", firstCode, "newpassword")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected superseded code to be rejected, got %v", err)
	}
}

func TestRequestResetDeliveryFailureKeepsCodeAndReturnsFallback(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recorder := &mail.RecorderService{FailNext: true}
	recovery := NewRecoveryService(store, store, recorder)

	result, err := recovery.RequestReset("student@example.com")
	if err != nil {
		t.Fatalf("expected delivery failure to be non-fatal, got %v", err)
	}
	if !result.AccountFound || result.Delivered {
		t.Fatalf("expected undelivered result, got %+v", result)
	}
	if result.FallbackCode == "" {
		t.Fatal("expected fallback code on delivery failure")
	}

	if err := recovery.ConsumeReset("student@example.com", result.FallbackCode, "newpassword"); err != nil {
		t.Fatalf("expected fallback code to stay valid, got %v", err)
	}
}

func TestConsumeResetHappyPathIsSingleUse(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recovery := NewRecoveryService(store, store, &mail.RecorderService{})

	if _, err := recovery.RequestReset("student@example.com"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	code := store.codesFor(1)[0].Code

	// Lowercased, padded input still matches the stored code.
	if err := recovery.ConsumeReset("student@example.com", "  "+strings.ToLower(code)+" ", "newpassword"); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	hash, ok := store.updated[1]
	if !ok {
		t.Fatal("expected password hash to be updated")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) != nil {
		t.Fatal("expected new password to verify against the stored hash")
	}

	err := recovery.ConsumeReset("student@example.com", code, "anotherpassword")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected consumed code to be rejected, got %v", err)
	}
}

func TestConsumeResetExpiredCodeRejected(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recovery := NewRecoveryService(store, store, &mail.RecorderService{})

	expired := models.RecoveryCode{
		AccountID: 1,
		Code:      "ABC123",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := store.Replace(&expired); err != nil {
		t.Fatalf("seed code failed: %v", err)
	}

	err := recovery.ConsumeReset("student@example.com", "ABC123", "newpassword")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected expired code rejection, got %v", err)
	}
}

func TestConsumeResetWeakPasswordLeavesCodeIntact(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recovery := NewRecoveryService(store, store, &mail.RecorderService{})

	if _, err := recovery.RequestReset("student@example.com"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	code := store.codesFor(1)[0].Code

	err := recovery.ConsumeReset("student@example.com", code, "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password rejection, got %v", err)
	}
	if _, ok := store.updated[1]; ok {
		t.Fatal("expected password to stay unchanged after weak attempt")
	}

	// Code validity is checked before password strength, and the code
	// survives the weak attempt for a retry.
	if err := recovery.ConsumeReset("student@example.com", code, "longenough"); err != nil {
		t.Fatalf("expected retry with the same code to succeed, got %v", err)
	}
}

func TestConsumeResetUnknownAddressOrWrongCode(t *testing.T) {
	store := newFakeRecoveryStore()
	store.addAccount(1, "student@example.com")
	recovery := NewRecoveryService(store, store, &mail.RecorderService{})

	err := recovery.ConsumeReset("nobody@example.com", "ABC123", "newpassword")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected unknown address rejection, got %v", err)
	}
	err = recovery.ConsumeReset("student@example.com", "FFFFFF", "newpassword")
	if !errors.Is(err, ErrInvalidOrExpiredCode) {
		t.Fatalf("expected wrong code rejection, got %v", err)
	}
}
