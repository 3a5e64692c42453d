package models

import "time"

type QueryStatus string

const (
	QueryStatusOpen       QueryStatus = "Open"
	QueryStatusInProgress QueryStatus = "In Progress"
	QueryStatusClosed     QueryStatus = "Closed"
)

func ParseQueryStatus(raw string) (QueryStatus, bool) {
	switch QueryStatus(raw) {
	case QueryStatusOpen, QueryStatusInProgress, QueryStatusClosed:
		return QueryStatus(raw), true
	}
	return QueryStatusOpen, false
}

type SupportQuery struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"index;not null"`
	BatchID   *uint
	Message   string      `gorm:"not null"`
	Status    QueryStatus `gorm:"not null;default:Open"`
	CreatedAt time.Time   `gorm:"not null"`

	Account *Account `gorm:"foreignKey:AccountID"`
	Batch   *Batch   `gorm:"foreignKey:BatchID"`
}
