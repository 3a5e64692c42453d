package services

import "github.com/kmurzabekov/batchly/internal/models"

// Action is a user-facing capability the policy decides on.
type Action int

const (
	// ActionManage covers admin management: create/edit/delete batches,
	// trainers, enrollments, and viewing the full lists.
	ActionManage Action = iota
	ActionViewPublicSummary
	ActionViewBatchContent
	ActionViewEnrollments
	ActionUploadRecording
	ActionDeleteRecording
)

// BatchResource is the context CanAct needs about a batch-scoped resource.
type BatchResource struct {
	// AssignedTrainer is the batch's trainer profile, nil when unassigned.
	AssignedTrainer *models.TrainerProfile
	// ActorEnrolled is whether an Enrollment(actor, batch) row exists.
	ActorEnrolled bool
}

// CanAct is the single authorization decision point. actor == nil means
// anonymous. The assigned-trainer check is deliberately an address match
// between the actor's Account and the batch's TrainerProfile, not an
// account-id reference: if the two ever diverge the check fails closed.
func CanAct(actor *models.Account, action Action, resource *BatchResource) bool {
	if action == ActionViewPublicSummary {
		return true
	}
	if actor == nil {
		return false
	}

	switch actor.Role {
	case models.RoleAdmin:
		switch action {
		case ActionUploadRecording, ActionDeleteRecording:
			// Content changes stay with the assigned trainer, even for admins.
			return false
		default:
			return true
		}
	case models.RoleTrainer:
		switch action {
		case ActionViewBatchContent, ActionViewEnrollments, ActionUploadRecording, ActionDeleteRecording:
			return isAssignedTrainer(actor, resource)
		default:
			return false
		}
	case models.RoleStudent:
		return action == ActionViewBatchContent && resource != nil && resource.ActorEnrolled
	}
	return false
}

func isAssignedTrainer(actor *models.Account, resource *BatchResource) bool {
	if resource == nil || resource.AssignedTrainer == nil {
		return false
	}
	return resource.AssignedTrainer.Email == actor.Email
}
