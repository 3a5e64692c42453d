package services

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions is the upload allow-list: video, audio, image, document,
// archive, text, and code types.
var allowedExtensions = map[string]bool{
	"mp4": true, "mkv": true, "webm": true,
	"wav": true, "mp3": true, "ogg": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true,
	"zip": true, "rar": true,
	"txt": true, "csv": true, "json": true,
	"py": true, "ipynb": true, "html": true, "css": true, "js": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// AllowedFile reports whether a filename's extension is on the allow-list.
func AllowedFile(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	return allowedExtensions[ext]
}

// SanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9_.-] so the result is safe as a blob key segment.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	sanitized := unsafeFilenameChars.ReplaceAllString(base, "_")
	sanitized = strings.Trim(sanitized, "._")
	if sanitized == "" {
		return "file"
	}
	return sanitized
}

// StoredFilename builds the stored name for an upload. It is always distinct
// from the original display name.
func StoredFilename(originalName string) string {
	return uuid.NewString() + "_" + SanitizeFilename(originalName)
}
