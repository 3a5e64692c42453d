package api

import (
	"github.com/kmurzabekov/batchly/internal/db"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
)

type Handler struct {
	repos        *db.Repositories
	identity     *services.IdentityService
	ledger       *services.LedgerService
	recovery     *services.RecoveryService
	blobs        storage.Store
	cookieSecure bool
}

func NewHandler(
	repos *db.Repositories,
	identity *services.IdentityService,
	ledger *services.LedgerService,
	recovery *services.RecoveryService,
	blobs storage.Store,
	cookieSecure bool,
) *Handler {
	return &Handler{
		repos:        repos,
		identity:     identity,
		ledger:       ledger,
		recovery:     recovery,
		blobs:        blobs,
		cookieSecure: cookieSecure,
	}
}

type registerInput struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type forgotPasswordInput struct {
	Email string `json:"email" form:"email"`
}

type resetPasswordInput struct {
	Email       string `json:"email" form:"email"`
	Code        string `json:"code" form:"code"`
	NewPassword string `json:"new_password" form:"new_password"`
}

type batchInput struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

type enrollInput struct {
	AccountID uint `json:"account_id" form:"account_id"`
	BatchID   uint `json:"batch_id" form:"batch_id"`
}

type trainerInput struct {
	Name      string `json:"name" form:"name"`
	Email     string `json:"email" form:"email"`
	Expertise string `json:"expertise" form:"expertise"`
}

type changeTrainerInput struct {
	TrainerID string `json:"trainer_id" form:"trainer_id"`
}

type adminPasswordInput struct {
	NewPassword string `json:"new_password" form:"new_password"`
}

type progressInput struct {
	RecordingID uint `json:"recording_id" form:"recording_id"`
}

type supportQueryInput struct {
	BatchID uint   `json:"batch_id" form:"batch_id"`
	Message string `json:"message" form:"message"`
}

type queryStatusInput struct {
	Status string `json:"status" form:"status"`
}

type profileInput struct {
	Name      string `json:"name" form:"name"`
	Phone     string `json:"phone" form:"phone"`
	Address   string `json:"address" form:"address"`
	About     string `json:"about" form:"about"`
	Expertise string `json:"expertise" form:"expertise"`
}

type securityInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	NewEmail        string `json:"new_email" form:"new_email"`
}
