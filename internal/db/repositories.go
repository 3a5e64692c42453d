package db

import "gorm.io/gorm"

type Repositories struct {
	Accounts      *AccountRepository
	Trainers      *TrainerRepository
	Batches       *BatchRepository
	Enrollments   *EnrollmentRepository
	Recordings    *RecordingRepository
	Progress      *ProgressRepository
	RecoveryCodes *RecoveryCodeRepository
	Queries       *SupportQueryRepository
	Sessions      *SessionRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Accounts:      NewAccountRepository(database),
		Trainers:      NewTrainerRepository(database),
		Batches:       NewBatchRepository(database),
		Enrollments:   NewEnrollmentRepository(database),
		Recordings:    NewRecordingRepository(database),
		Progress:      NewProgressRepository(database),
		RecoveryCodes: NewRecoveryCodeRepository(database),
		Queries:       NewSupportQueryRepository(database),
		Sessions:      NewSessionRepository(database),
	}
}
