package models

import "time"

// RecoveryCode is a one-time password-reset code. At most one code is live
// per account: issuing a new one deletes all prior codes first, so only the
// most recently issued code ever validates.
type RecoveryCode struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"index;not null"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
