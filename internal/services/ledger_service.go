package services

import (
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
)

type LedgerEnrollmentRepository interface {
	ExistsByAccountAndBatch(accountID uint, batchID uint) (bool, error)
	Create(enrollment *models.Enrollment) error
}

type LedgerRecordingRepository interface {
	ListByBatchOrdered(batchID uint) ([]models.Recording, error)
	CountByBatch(batchID uint) (int64, error)
}

type LedgerProgressRepository interface {
	Upsert(accountID uint, recordingID uint, completedAt time.Time) error
	CountCompletedInBatch(accountID uint, batchID uint) (int64, error)
	CompletedRecordingIDs(accountID uint, batchID uint) (map[uint]bool, error)
}

// LedgerService is the enrollment and progress ledger: who belongs to which
// batch and which lessons they have completed.
type LedgerService struct {
	enrollments LedgerEnrollmentRepository
	recordings  LedgerRecordingRepository
	progress    LedgerProgressRepository
}

func NewLedgerService(
	enrollments LedgerEnrollmentRepository,
	recordings LedgerRecordingRepository,
	progress LedgerProgressRepository,
) *LedgerService {
	return &LedgerService{enrollments: enrollments, recordings: recordings, progress: progress}
}

// Enroll adds a student to a batch. An existing (student, batch) pair is an
// informational no-op, not an error: already is true and nothing is written.
func (svc *LedgerService) Enroll(accountID uint, batchID uint) (models.Enrollment, bool, error) {
	exists, err := svc.enrollments.ExistsByAccountAndBatch(accountID, batchID)
	if err != nil {
		return models.Enrollment{}, false, err
	}
	if exists {
		return models.Enrollment{}, true, nil
	}

	enrollment := models.Enrollment{
		AccountID:  accountID,
		BatchID:    batchID,
		EnrolledAt: time.Now(),
	}
	if err := svc.enrollments.Create(&enrollment); err != nil {
		return models.Enrollment{}, false, err
	}
	return enrollment, false, nil
}

// RecordCompletion upserts the student's progress record for a recording.
// The timestamp is never preserved: re-marking always bumps it.
func (svc *LedgerService) RecordCompletion(accountID uint, recordingID uint) error {
	return svc.progress.Upsert(accountID, recordingID, time.Now())
}

// ComputeProgress returns (completed, total) recordings for a student in a
// batch. An empty batch is (0, 0); ProgressPercent turns that into 0%.
func (svc *LedgerService) ComputeProgress(accountID uint, batchID uint) (int, int, error) {
	total, err := svc.recordings.CountByBatch(batchID)
	if err != nil {
		return 0, 0, err
	}
	completed, err := svc.progress.CountCompletedInBatch(accountID, batchID)
	if err != nil {
		return 0, 0, err
	}
	return int(completed), int(total), nil
}

// ProgressPercent is the completion ratio as a percentage, defined as 0 when
// the batch has no recordings.
func ProgressPercent(completed int, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// NextIncompleteLesson walks the batch's recordings in insertion order and
// returns the first one without a completed progress record, or nil when the
// student has finished everything (or the batch is empty).
func (svc *LedgerService) NextIncompleteLesson(accountID uint, batchID uint) (*models.Recording, error) {
	recordings, err := svc.recordings.ListByBatchOrdered(batchID)
	if err != nil {
		return nil, err
	}
	if len(recordings) == 0 {
		return nil, nil
	}

	completed, err := svc.progress.CompletedRecordingIDs(accountID, batchID)
	if err != nil {
		return nil, err
	}

	for index := range recordings {
		if !completed[recordings[index].ID] {
			return &recordings[index], nil
		}
	}
	return nil, nil
}
