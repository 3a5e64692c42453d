package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
)

// CreateSupportQuery files a help request from any signed-in account,
// optionally tied to a batch.
func (handler *Handler) CreateSupportQuery(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := supportQueryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return apiError(c, fiber.StatusBadRequest, "a message is required")
	}

	query := models.SupportQuery{
		AccountID: account.ID,
		Message:   input.Message,
		Status:    models.QueryStatusOpen,
		CreatedAt: time.Now(),
	}
	if input.BatchID != 0 {
		if _, err := handler.repos.Batches.FindByID(input.BatchID); err != nil {
			return handler.domainError(c, err)
		}
		batchID := input.BatchID
		query.BatchID = &batchID
	}
	if err := handler.repos.Queries.Create(&query); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to submit query")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "query": supportQueryView(&query)})
}

// ListSupportQueries answers per role: admins see everything, trainers see
// open queries for their batches, students see their own.
func (handler *Handler) ListSupportQueries(c *fiber.Ctx) error {
	account, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var (
		queries []models.SupportQuery
		err     error
	)
	switch account.Role {
	case models.RoleAdmin:
		queries, err = handler.repos.Queries.ListAll()
	case models.RoleTrainer:
		queries, err = handler.openQueriesForTrainer(account)
	case models.RoleStudent:
		queries, err = handler.repos.Queries.ListByAccount(account.ID)
	default:
		return apiError(c, fiber.StatusForbidden, "forbidden")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list queries")
	}

	payloads := make([]fiber.Map, 0, len(queries))
	for index := range queries {
		payloads = append(payloads, supportQueryView(&queries[index]))
	}
	return c.JSON(fiber.Map{"queries": payloads})
}

// openQueriesForTrainer collects open queries across the trainer's assigned
// batches. A trainer whose profile link is broken sees an empty list rather
// than an error.
func (handler *Handler) openQueriesForTrainer(account *models.Account) ([]models.SupportQuery, error) {
	trainer, err := handler.trainerProfileFor(account)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return []models.SupportQuery{}, nil
	}
	batches, err := handler.repos.Batches.ListByTrainerProfile(trainer.ID)
	if err != nil {
		return nil, err
	}
	batchIDs := make([]uint, 0, len(batches))
	for index := range batches {
		batchIDs = append(batchIDs, batches[index].ID)
	}
	return handler.repos.Queries.ListOpenForBatches(batchIDs)
}

// UpdateQueryStatus moves a query through Open / In Progress / Closed.
func (handler *Handler) UpdateQueryStatus(c *fiber.Ctx) error {
	queryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid query id")
	}
	input := queryStatusInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	status, valid := models.ParseQueryStatus(strings.TrimSpace(input.Status))
	if !valid {
		return apiError(c, fiber.StatusBadRequest, "invalid status")
	}

	if _, err := handler.repos.Queries.FindByID(queryID); err != nil {
		return handler.domainError(c, err)
	}
	if err := handler.repos.Queries.UpdateStatus(queryID, status); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update query")
	}
	return c.JSON(fiber.Map{"ok": true, "message": "query status updated"})
}
