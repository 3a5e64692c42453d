package models

import "time"

// Session binds an opaque token to an account. The token is the only thing
// the browser holds; everything else lives server-side.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	AccountID uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
