package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/models"
)

func batchView(batch *models.Batch) fiber.Map {
	view := fiber.Map{
		"id":          batch.ID,
		"name":        batch.Name,
		"description": batch.Description,
		"created_at":  batch.CreatedAt,
	}
	if batch.TrainerProfile != nil {
		view["trainer"] = fiber.Map{
			"id":        batch.TrainerProfile.ID,
			"name":      batch.TrainerProfile.Name,
			"expertise": batch.TrainerProfile.Expertise,
		}
	}
	return view
}

func batchViews(batches []models.Batch) []fiber.Map {
	views := make([]fiber.Map, 0, len(batches))
	for index := range batches {
		views = append(views, batchView(&batches[index]))
	}
	return views
}

func recordingView(recording *models.Recording) fiber.Map {
	return fiber.Map{
		"id":            recording.ID,
		"original_name": recording.OriginalName,
		"filename":      recording.Filename,
		"notes":         recording.Notes,
		"upload_time":   recording.UploadTime,
	}
}

func trainerView(trainer *models.TrainerProfile) fiber.Map {
	return fiber.Map{
		"id":        trainer.ID,
		"name":      trainer.Name,
		"email":     trainer.Email,
		"expertise": trainer.Expertise,
		"phone":     trainer.Phone,
		"about":     trainer.About,
	}
}

func supportQueryView(query *models.SupportQuery) fiber.Map {
	view := fiber.Map{
		"id":         query.ID,
		"message":    query.Message,
		"status":     query.Status,
		"created_at": query.CreatedAt,
	}
	if query.Account != nil {
		view["from"] = fiber.Map{"id": query.Account.ID, "name": query.Account.Name}
	}
	if query.Batch != nil {
		view["batch"] = fiber.Map{"id": query.Batch.ID, "name": query.Batch.Name}
	}
	return view
}
