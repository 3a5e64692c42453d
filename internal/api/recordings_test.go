package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmurzabekov/batchly/internal/models"
	"github.com/kmurzabekov/batchly/internal/storage"
)

func TestUploadRecordingAssignedTrainerOnly(t *testing.T) {
	env := newTestEnv(t)
	seedAccount(t, env, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	assigned := seedTrainer(t, env, "Assigned", "assigned@example.com", "secret123")
	seedTrainer(t, env, "Other", "other@example.com", "secret123")
	assignedID := assigned.ID
	batch := seedBatch(t, env, "Go Basics", &assignedID)
	uploadPath := fmt.Sprintf("/api/batches/%d/recordings", batch.ID)

	// Admins manage batches but never touch content.
	adminCookie := login(t, env, "admin@example.com", "secret123")
	response := uploadFile(t, env, uploadPath, adminCookie, "lesson.mp4", "bytes", "")
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for admin upload, got %d", response.StatusCode)
	}
	response.Body.Close()

	// A trainer not assigned to this batch is refused.
	otherCookie := login(t, env, "other@example.com", "secret123")
	response = uploadFile(t, env, uploadPath, otherCookie, "lesson.mp4", "bytes", "")
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for unassigned trainer, got %d", response.StatusCode)
	}
	response.Body.Close()

	assignedCookie := login(t, env, "assigned@example.com", "secret123")
	response = uploadFile(t, env, uploadPath, assignedCookie, "lesson.mp4", "lesson bytes", "intro")
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for assigned trainer, got %d", response.StatusCode)
	}
	payload := decodeBody(t, response)
	recordingPayload := payload["recording"].(map[string]any)
	storedName, _ := recordingPayload["filename"].(string)
	if storedName == "" || storedName == "lesson.mp4" {
		t.Fatalf("expected a distinct stored filename, got %q", storedName)
	}

	// The blob landed under the batch directory.
	blobPath := filepath.Join(env.uploadRoot, "recordings", fmt.Sprint(batch.ID), storedName)
	contents, err := os.ReadFile(blobPath)
	if err != nil {
		t.Fatalf("read stored blob: %v", err)
	}
	if string(contents) != "lesson bytes" {
		t.Fatalf("expected stored contents, got %q", contents)
	}
}

func TestUploadRecordingRejectsDisallowedExtension(t *testing.T) {
	env := newTestEnv(t)
	trainer := seedTrainer(t, env, "Trainer", "trainer@example.com", "secret123")
	trainerID := trainer.ID
	batch := seedBatch(t, env, "Go Basics", &trainerID)

	cookie := login(t, env, "trainer@example.com", "secret123")
	response := uploadFile(t, env, fmt.Sprintf("/api/batches/%d/recordings", batch.ID),
		cookie, "malware.exe", "MZ", "")
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed extension, got %d", response.StatusCode)
	}
	payload := decodeBody(t, response)
	if payload["error"] != "file type not allowed" {
		t.Fatalf("expected file type error, got %v", payload)
	}

	count, err := env.repos.Recordings.CountByBatch(batch.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected no recording rows, got %d err %v", count, err)
	}
}

func TestDownloadRecordingEnrollmentGateAndOriginalName(t *testing.T) {
	env := newTestEnv(t)
	student := seedAccount(t, env, "Maya", "maya@example.com", "secret123", models.RoleStudent)
	seedAccount(t, env, "Outsider", "outsider@example.com", "secret123", models.RoleStudent)
	batch := seedBatch(t, env, "Go Basics", nil)
	recording := seedRecording(t, env, batch.ID, "stored_lesson.mp4", "Lesson 1.mp4")
	writeTestBlob(t, env, storage.RecordingKey(batch.ID, recording.Filename), "lesson bytes")
	if err := env.repos.Enrollments.Create(&models.Enrollment{
		AccountID: student.ID, BatchID: batch.ID, EnrolledAt: time.Now(),
	}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	downloadPath := fmt.Sprintf("/api/uploads/%d/%s", batch.ID, recording.Filename)

	outsiderCookie := login(t, env, "outsider@example.com", "secret123")
	response := getJSON(t, env, downloadPath, outsiderCookie)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for unenrolled student, got %d", response.StatusCode)
	}
	response.Body.Close()

	cookie := login(t, env, "maya@example.com", "secret123")
	response = getJSON(t, env, downloadPath, cookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for enrolled student, got %d", response.StatusCode)
	}
	disposition := response.Header.Get("Content-Disposition")
	if disposition != `attachment; filename="Lesson 1.mp4"` {
		t.Fatalf("expected original name in disposition, got %q", disposition)
	}
	contents, err := io.ReadAll(response.Body)
	response.Body.Close()
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(contents) != "lesson bytes" {
		t.Fatalf("expected blob contents, got %q", contents)
	}
}

func TestDeleteRecordingRemovesRowsProgressAndBlob(t *testing.T) {
	env := newTestEnv(t)
	student := seedAccount(t, env, "Maya", "maya@example.com", "secret123", models.RoleStudent)
	trainer := seedTrainer(t, env, "Trainer", "trainer@example.com", "secret123")
	trainerID := trainer.ID
	batch := seedBatch(t, env, "Go Basics", &trainerID)
	recording := seedRecording(t, env, batch.ID, "stored_lesson.mp4", "Lesson 1.mp4")
	writeTestBlob(t, env, storage.RecordingKey(batch.ID, recording.Filename), "lesson bytes")
	if err := env.repos.Progress.Upsert(student.ID, recording.ID, time.Now()); err != nil {
		t.Fatalf("progress: %v", err)
	}

	cookie := login(t, env, "trainer@example.com", "secret123")
	response := deleteRequest(t, env, fmt.Sprintf("/api/recordings/%d", recording.ID), cookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	if count, err := env.repos.Recordings.CountByBatch(batch.ID); err != nil || count != 0 {
		t.Fatalf("expected recording row gone, got %d err %v", count, err)
	}
	if completed, err := env.repos.Progress.CountCompletedInBatch(student.ID, batch.ID); err != nil || completed != 0 {
		t.Fatalf("expected progress rows gone, got %d err %v", completed, err)
	}
	exists, err := env.blobs.Exists(storage.RecordingKey(batch.ID, recording.Filename))
	if err != nil || exists {
		t.Fatalf("expected blob gone, got %v err %v", exists, err)
	}
}

func TestDeleteRecordingAdminIsDenied(t *testing.T) {
	env := newTestEnv(t)
	seedAccount(t, env, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	trainer := seedTrainer(t, env, "Trainer", "trainer@example.com", "secret123")
	trainerID := trainer.ID
	batch := seedBatch(t, env, "Go Basics", &trainerID)
	recording := seedRecording(t, env, batch.ID, "stored_lesson.mp4", "Lesson 1.mp4")

	cookie := login(t, env, "admin@example.com", "secret123")
	response := deleteRequest(t, env, fmt.Sprintf("/api/recordings/%d", recording.ID), cookie)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for admin delete, got %d", response.StatusCode)
	}
	response.Body.Close()

	if _, err := env.repos.Recordings.FindByID(recording.ID); err != nil {
		t.Fatalf("expected recording untouched, got %v", err)
	}
}
