package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func recordingPrefix(batchID uint) string {
	return "recordings/" + strconv.FormatUint(uint64(batchID), 10) + "/"
}

// DiskStore keeps blobs on the local filesystem under a root directory.
type DiskStore struct {
	root string
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// resolve maps a key to a path under the root, rejecting anything that would
// escape it.
func (store *DiskStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || cleaned == "" ||
		strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrInvalidKey
	}
	return filepath.Join(store.root, cleaned), nil
}

func (store *DiskStore) Save(key string, contents io.Reader) error {
	path, err := store.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", key, err)
	}
	if _, err := io.Copy(file, contents); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return file.Close()
}

func (store *DiskStore) Open(key string) (io.ReadCloser, error) {
	path, err := store.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return file, nil
}

func (store *DiskStore) Delete(key string) error {
	path, err := store.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (store *DiskStore) Exists(key string) (bool, error) {
	path, err := store.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (store *DiskStore) DeletePrefix(prefix string) error {
	path, err := store.resolve(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete blob prefix %s: %w", prefix, err)
	}
	return nil
}
