package models

import "time"

type Account struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"not null;default:student"`
	ProfilePic   string
	Phone        string
	Address      string
	About        string
	CreatedAt    time.Time `gorm:"not null"`
}

// TrainerProfile carries trainer metadata and is paired 1:1 with a trainer
// Account by matching email. The pairing is by address, not by account id:
// if the two ever diverge, batch authorization fails closed for that trainer.
type TrainerProfile struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Email      string `gorm:"uniqueIndex;not null"`
	Expertise  string
	ProfilePic string
	Phone      string
	Address    string
	About      string
}
