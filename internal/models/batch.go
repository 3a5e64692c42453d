package models

import "time"

type Batch struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"uniqueIndex;not null"`
	Description      string
	TrainerProfileID *uint
	TrainerProfile   *TrainerProfile `gorm:"foreignKey:TrainerProfileID"`
	CreatedAt        time.Time       `gorm:"not null"`
}

type Enrollment struct {
	ID         uint      `gorm:"primaryKey"`
	AccountID  uint      `gorm:"index;not null"`
	BatchID    uint      `gorm:"index;not null"`
	EnrolledAt time.Time `gorm:"not null"`

	Account *Account `gorm:"foreignKey:AccountID"`
	Batch   *Batch   `gorm:"foreignKey:BatchID"`
}

// Recording is a lesson unit. Filename is the stored blob key segment and is
// always distinct from OriginalName. Insertion order (id ascending) is the
// lesson order students walk through.
type Recording struct {
	ID           uint   `gorm:"primaryKey"`
	Filename     string `gorm:"not null"`
	OriginalName string `gorm:"not null"`
	Notes        string
	BatchID      uint      `gorm:"index;not null"`
	UploadTime   time.Time `gorm:"not null"`
}

// ProgressRecord is created lazily on the first completion event, never on
// enrollment. Re-marking a completed recording refreshes CompletedAt.
type ProgressRecord struct {
	ID          uint `gorm:"primaryKey"`
	AccountID   uint `gorm:"index;not null"`
	RecordingID uint `gorm:"index;not null"`
	Completed   bool `gorm:"not null;default:false"`
	CompletedAt *time.Time
}
