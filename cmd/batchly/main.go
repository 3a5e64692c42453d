package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/kmurzabekov/batchly/internal/api"
	"github.com/kmurzabekov/batchly/internal/db"
	"github.com/kmurzabekov/batchly/internal/mail"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
)

const appName = "Batchly"

func main() {
	// A missing .env is fine; the environment wins either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	dbPath := getEnv("DB_PATH", filepath.Join("data", "batchly.db"))
	uploadRoot := getEnv("UPLOAD_ROOT", filepath.Join("data", "uploads"))
	port := getEnv("PORT", "8080")
	fromEmail := getEnv("MAIL_FROM", "no-reply@batchly.local")
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	blobs, err := storage.NewDiskStore(uploadRoot)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	var notifier mail.Service
	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		notifier = mail.NewSendGridService(key, appName, fromEmail)
	} else {
		log.Printf("SENDGRID_API_KEY not set, mail goes to the console")
		notifier = mail.NewConsoleService(appName, fromEmail)
	}

	repos := db.NewRepositories(database)
	identity := services.NewIdentityService(repos.Accounts, repos.Sessions)
	ledger := services.NewLedgerService(repos.Enrollments, repos.Recordings, repos.Progress)
	recovery := services.NewRecoveryService(repos.Accounts, repos.RecoveryCodes, notifier)

	handler := api.NewHandler(repos, identity, ledger, recovery, blobs, cookieSecure)

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		BodyLimit:             512 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("%s listening on http://0.0.0.0:%s (db: %s, uploads: %s)", appName, port, dbPath, uploadRoot)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
