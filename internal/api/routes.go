package api

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the full route surface. Public routes come first,
// then the authenticated group, then the admin-only management group.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/health", handler.Health)

	// Identity
	app.Post("/api/register", handler.Register)
	app.Post("/api/login", handler.Login)
	app.Post("/api/logout", handler.Logout)
	app.Post("/api/forgot-password", handler.ForgotPassword)
	app.Post("/api/reset-password", handler.ResetPassword)

	// Batches are publicly listable; content access is decided per request
	// inside the handler.
	app.Get("/api/batches", handler.ListPublicBatches)
	app.Get("/api/batches/:id", handler.ViewBatch)

	// The lesson player posts progress with its own response contract, so the
	// route resolves the session itself and must sit ahead of the AuthRequired
	// group middleware.
	app.Post("/api/progress/update", handler.UpdateProgress)

	// Signed-in surface
	authed := app.Group("/api", handler.AuthRequired)
	authed.Get("/dashboard", handler.Dashboard)
	authed.Get("/profile", handler.ShowProfile)
	authed.Post("/profile", handler.UpdateProfile)
	authed.Post("/profile/security", handler.UpdateSecurity)

	authed.Get("/my/batches", handler.StudentBatches)
	authed.Get("/batches/:id/enrollments", handler.BatchEnrollments)

	authed.Post("/batches/:id/recordings", handler.UploadRecording)
	authed.Delete("/recordings/:id", handler.DeleteRecording)
	authed.Get("/uploads/:batchID/:filename", handler.DownloadRecording)

	authed.Post("/queries", handler.CreateSupportQuery)
	authed.Get("/queries", handler.ListSupportQueries)

	// Admin management surface
	admin := app.Group("/api/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Get("/batches", handler.ListBatches)
	admin.Post("/batches", handler.CreateBatch)
	admin.Put("/batches/:id", handler.UpdateBatch)
	admin.Delete("/batches/:id", handler.DeleteBatch)
	admin.Post("/batches/:id/trainer", handler.ChangeBatchTrainer)

	admin.Get("/trainers", handler.ListTrainers)
	admin.Post("/trainers", handler.CreateTrainer)
	admin.Delete("/trainers/:id", handler.DeleteTrainer)
	admin.Get("/trainers/search", handler.SearchTrainer)

	admin.Get("/students", handler.ListStudents)
	admin.Post("/students/:id/password", handler.AdminChangePassword)
	admin.Delete("/students/:id", handler.DeleteStudent)

	admin.Post("/enrollments", handler.EnrollStudent)
	admin.Delete("/enrollments/:id", handler.RemoveEnrollment)
	admin.Get("/enrollments/search", handler.SearchStudentBatches)

	admin.Put("/queries/:id/status", handler.UpdateQueryStatus)
}
