// Package storage is the path-addressed blob store for uploaded recordings
// and profile pictures. Keys are slash-separated relative paths; recordings
// live under recordings/<batchID>/ and profile pictures under profiles/.
package storage

import (
	"errors"
	"io"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

type Store interface {
	Save(key string, contents io.Reader) error
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
	Exists(key string) (bool, error)
	// DeletePrefix removes every blob under the prefix, e.g. a batch directory.
	DeletePrefix(prefix string) error
}

func RecordingKey(batchID uint, filename string) string {
	return recordingPrefix(batchID) + filename
}

func RecordingPrefix(batchID uint) string {
	return recordingPrefix(batchID)
}

func ProfilePictureKey(filename string) string {
	return "profiles/" + filename
}
