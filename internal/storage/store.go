// Package storage manages the on-disk media tree: raw upload staging,
// derived images, and placed videos. Database rows reference files by
// paths relative to the storage root, so the root can move between
// environments without rewriting rows.
//
// Layout under the root:
//
//	tmp/     raw uploads, short-lived staging for the submission pipeline
//	images/  derived JPEG images referenced by diary rows
//	videos/  uploaded video files referenced by diary rows
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/config"
	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

const (
	tmpDir    = "tmp"
	imagesDir = "images"
	videosDir = "videos"
)

// Store is a media file store rooted at a single directory.
type Store struct {
	root string
}

// New creates a Store rooted at cfg.Root and ensures the directory
// layout exists.
func New(cfg config.StorageConfig) (*Store, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	for _, dir := range []string{tmpDir, imagesDir, videosDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	return &Store{root: root}, nil
}

// Root returns the absolute storage root.
func (s *Store) Root() string {
	return s.root
}

// DerivedDir returns the absolute directory derived images are written
// into.
func (s *Store) DerivedDir() string {
	return filepath.Join(s.root, imagesDir)
}

// Abs converts a stored relative path into an absolute one.
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Rel converts an absolute path inside the store into the relative
// form persisted in diary rows.
func (s *Store) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the storage root: %w", abs, domain.ErrStorage)
	}
	return filepath.ToSlash(rel), nil
}

// SaveUpload streams an uploaded file into the staging area and
// returns its absolute path. The name is regenerated (field prefix,
// random id, original extension), so client-supplied names never reach
// the filesystem. Uploads over maxBytes are rejected with a
// ValidationError and leave nothing behind.
func (s *Store) SaveUpload(field, origName string, r io.Reader, maxBytes int64) (string, error) {
	ext := filepath.Ext(origName)
	name := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)
	dst := filepath.Join(s.root, tmpDir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create staged upload: %v: %w", err, domain.ErrStorage)
	}

	written, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write staged upload: %v: %w", err, domain.ErrStorage)
	}
	if written > maxBytes {
		os.Remove(dst)
		return "", domain.NewValidationError(field, fmt.Sprintf("file exceeds the %d byte limit", maxBytes))
	}

	return dst, nil
}

// PlaceVideo moves a staged video into the videos directory and
// returns its stored relative path. The staged file no longer exists
// afterwards.
func (s *Store) PlaceVideo(stagedAbs string) (string, error) {
	dst := filepath.Join(s.root, videosDir, filepath.Base(stagedAbs))
	if err := os.Rename(stagedAbs, dst); err != nil {
		return "", fmt.Errorf("place video: %v: %w", err, domain.ErrStorage)
	}
	return s.Rel(dst)
}

// Remove deletes a stored file by relative path. A missing file is not
// an error: removal is used by best-effort cleanup paths that may run
// after the file is already gone.
func (s *Store) Remove(rel string) error {
	err := os.Remove(s.Abs(rel))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %v: %w", rel, err, domain.ErrStorage)
	}
	return nil
}

// RemoveAbs deletes a file by absolute path, tolerating absence the
// same way Remove does.
func (s *Store) RemoveAbs(abs string) error {
	err := os.Remove(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %v: %w", abs, err, domain.ErrStorage)
	}
	return nil
}
