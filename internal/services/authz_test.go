package services

import (
	"testing"

	"github.com/kmurzabekov/batchly/internal/models"
)

func TestCanActPublicSummaryIsOpenToEveryone(t *testing.T) {
	if !CanAct(nil, ActionViewPublicSummary, nil) {
		t.Fatal("expected anonymous viewer to see the public summary")
	}
	if !CanAct(&models.Account{Role: models.RoleStudent}, ActionViewPublicSummary, nil) {
		t.Fatal("expected student to see the public summary")
	}
}

func TestCanActAnonymousIsDeniedEverythingElse(t *testing.T) {
	actions := []Action{
		ActionManage, ActionViewBatchContent, ActionViewEnrollments,
		ActionUploadRecording, ActionDeleteRecording,
	}
	for _, action := range actions {
		if CanAct(nil, action, &BatchResource{}) {
			t.Fatalf("expected anonymous denial for action %d", action)
		}
	}
}

func TestCanActAdminManagesButNeverTouchesRecordings(t *testing.T) {
	admin := &models.Account{Role: models.RoleAdmin, Email: "admin@example.com"}
	resource := &BatchResource{
		AssignedTrainer: &models.TrainerProfile{Email: "trainer@example.com"},
	}

	if !CanAct(admin, ActionManage, nil) {
		t.Fatal("expected admin to manage")
	}
	if !CanAct(admin, ActionViewBatchContent, resource) {
		t.Fatal("expected admin to view batch content")
	}
	if !CanAct(admin, ActionViewEnrollments, resource) {
		t.Fatal("expected admin to view enrollments")
	}
	if CanAct(admin, ActionUploadRecording, resource) {
		t.Fatal("expected admin upload to be denied")
	}
	if CanAct(admin, ActionDeleteRecording, resource) {
		t.Fatal("expected admin delete to be denied")
	}
}

func TestCanActTrainerNeedsAssignment(t *testing.T) {
	trainer := &models.Account{Role: models.RoleTrainer, Email: "trainer@example.com"}
	assigned := &BatchResource{
		AssignedTrainer: &models.TrainerProfile{Email: "trainer@example.com"},
	}
	otherBatch := &BatchResource{
		AssignedTrainer: &models.TrainerProfile{Email: "someone-else@example.com"},
	}
	unassigned := &BatchResource{}

	batchActions := []Action{
		ActionViewBatchContent, ActionViewEnrollments,
		ActionUploadRecording, ActionDeleteRecording,
	}
	for _, action := range batchActions {
		if !CanAct(trainer, action, assigned) {
			t.Fatalf("expected assigned trainer allowed for action %d", action)
		}
		if CanAct(trainer, action, otherBatch) {
			t.Fatalf("expected unassigned trainer denied for action %d", action)
		}
		if CanAct(trainer, action, unassigned) {
			t.Fatalf("expected trainer denied on batch without trainer for action %d", action)
		}
	}
	if CanAct(trainer, ActionManage, nil) {
		t.Fatal("expected trainer denied management")
	}
}

func TestCanActTrainerAddressDivergenceFailsClosed(t *testing.T) {
	// The pairing is by address. A profile whose address drifted away from
	// the account must not grant anything.
	trainer := &models.Account{Role: models.RoleTrainer, Email: "new-address@example.com"}
	resource := &BatchResource{
		AssignedTrainer: &models.TrainerProfile{Email: "old-address@example.com"},
	}

	if CanAct(trainer, ActionUploadRecording, resource) {
		t.Fatal("expected diverged trainer pairing to fail closed")
	}
	if CanAct(trainer, ActionViewBatchContent, resource) {
		t.Fatal("expected diverged trainer pairing to fail closed for viewing")
	}
}

func TestCanActStudentSeesOnlyEnrolledContent(t *testing.T) {
	student := &models.Account{Role: models.RoleStudent, Email: "student@example.com"}

	if !CanAct(student, ActionViewBatchContent, &BatchResource{ActorEnrolled: true}) {
		t.Fatal("expected enrolled student to view batch content")
	}
	if CanAct(student, ActionViewBatchContent, &BatchResource{ActorEnrolled: false}) {
		t.Fatal("expected unenrolled student denied")
	}
	if CanAct(student, ActionViewBatchContent, nil) {
		t.Fatal("expected student denied without resource context")
	}
	if CanAct(student, ActionViewEnrollments, &BatchResource{ActorEnrolled: true}) {
		t.Fatal("expected student denied the roster")
	}
	if CanAct(student, ActionUploadRecording, &BatchResource{ActorEnrolled: true}) {
		t.Fatal("expected student denied upload")
	}
	if CanAct(student, ActionManage, nil) {
		t.Fatal("expected student denied management")
	}
}

func TestCanActUnknownRoleIsDenied(t *testing.T) {
	ghost := &models.Account{Role: models.Role("ghost")}
	if CanAct(ghost, ActionManage, nil) {
		t.Fatal("expected unknown role denied")
	}
	if CanAct(ghost, ActionViewBatchContent, &BatchResource{ActorEnrolled: true}) {
		t.Fatal("expected unknown role denied batch content")
	}
}
