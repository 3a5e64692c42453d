package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmurzabekov/batchly/internal/db"
	"github.com/kmurzabekov/batchly/internal/mail"
	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/services"
	"github.com/kmurzabekov/batchly/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	app        *fiber.App
	database   *gorm.DB
	repos      *db.Repositories
	recorder   *mail.RecorderService
	blobs      storage.Store
	uploadRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	uploadRoot := t.TempDir()
	blobs, err := storage.NewDiskStore(uploadRoot)
	if err != nil {
		t.Fatalf("create blob store: %v", err)
	}

	repos := db.NewRepositories(database)
	recorder := &mail.RecorderService{}
	identity := services.NewIdentityService(repos.Accounts, repos.Sessions)
	ledger := services.NewLedgerService(repos.Enrollments, repos.Recordings, repos.Progress)
	recovery := services.NewRecoveryService(repos.Accounts, repos.RecoveryCodes, recorder)

	handler := NewHandler(repos, identity, ledger, recovery, blobs, false)
	app := fiber.New()
	RegisterRoutes(app, handler)

	return &testEnv{
		app:        app,
		database:   database,
		repos:      repos,
		recorder:   recorder,
		blobs:      blobs,
		uploadRoot: uploadRoot,
	}
}

func seedAccount(t *testing.T, env *testEnv, name string, email string, password string, role models.Role) models.Account {
	t.Helper()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account := models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := env.repos.Accounts.Create(&account); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

// seedTrainer creates the paired profile and login account for a trainer.
func seedTrainer(t *testing.T, env *testEnv, name string, email string, password string) models.TrainerProfile {
	t.Helper()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	trainer := models.TrainerProfile{Name: name, Email: email}
	account := models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleTrainer,
		CreatedAt:    time.Now(),
	}
	if err := env.repos.Trainers.CreatePaired(&trainer, &account); err != nil {
		t.Fatalf("seed trainer: %v", err)
	}
	return trainer
}

func seedBatch(t *testing.T, env *testEnv, name string, trainerID *uint) models.Batch {
	t.Helper()
	batch := models.Batch{Name: name, TrainerProfileID: trainerID, CreatedAt: time.Now()}
	if err := env.repos.Batches.Create(&batch); err != nil {
		t.Fatalf("seed batch: %v", err)
	}
	return batch
}

func seedRecording(t *testing.T, env *testEnv, batchID uint, storedName string, originalName string) models.Recording {
	t.Helper()
	recording := models.Recording{
		Filename:     storedName,
		OriginalName: originalName,
		BatchID:      batchID,
		UploadTime:   time.Now(),
	}
	if err := env.repos.Recordings.Create(&recording); err != nil {
		t.Fatalf("seed recording: %v", err)
	}
	return recording
}

func login(t *testing.T, env *testEnv, email string, password string) string {
	t.Helper()
	response := postJSON(t, env, "/api/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("login as %s failed with status %d", email, response.StatusCode)
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}
	t.Fatalf("login as %s did not set a session cookie", email)
	return ""
}

func doRequest(t *testing.T, env *testEnv, method string, path string, cookie string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	request := httptest.NewRequest(method, path, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func postJSON(t *testing.T, env *testEnv, path string, cookie string, payload any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return doRequest(t, env, http.MethodPost, path, cookie, bytes.NewReader(encoded), fiber.MIMEApplicationJSON)
}

func putJSON(t *testing.T, env *testEnv, path string, cookie string, payload any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return doRequest(t, env, http.MethodPut, path, cookie, bytes.NewReader(encoded), fiber.MIMEApplicationJSON)
}

func getJSON(t *testing.T, env *testEnv, path string, cookie string) *http.Response {
	t.Helper()
	return doRequest(t, env, http.MethodGet, path, cookie, nil, "")
}

func deleteRequest(t *testing.T, env *testEnv, path string, cookie string) *http.Response {
	t.Helper()
	return doRequest(t, env, http.MethodDelete, path, cookie, nil, "")
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()
	payload := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return payload
}

func writeTestBlob(t *testing.T, env *testEnv, key string, contents string) {
	t.Helper()
	if err := env.blobs.Save(key, strings.NewReader(contents)); err != nil {
		t.Fatalf("write test blob %s: %v", key, err)
	}
}

// uploadFile posts a multipart recording upload with optional notes.
func uploadFile(t *testing.T, env *testEnv, path string, cookie string, filename string, contents string, notes string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if notes != "" {
		if err := writer.WriteField("notes", notes); err != nil {
			t.Fatalf("write notes field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return doRequest(t, env, http.MethodPost, path, cookie, body, writer.FormDataContentType())
}
