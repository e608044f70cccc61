package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Harshitk-cp/deepfake-api/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultExtension is used when the uploaded filename carries none.
const DefaultExtension = ".mp4"

var ErrNotFound = errors.New("upload not found")

// TempStore writes uploads to uniquely named files under a single directory.
type TempStore struct {
	dir string
}

// NewTempStore creates dir if needed and returns a store rooted there.
func NewTempStore(dir string) (*TempStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &TempStore{dir: dir}, nil
}

func (s *TempStore) Dir() string {
	return s.dir
}

// TempPath allocates a unique path for filename, keeping its extension.
func (s *TempStore) TempPath(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if ext == "" || ext == "." {
		ext = DefaultExtension
	}
	return filepath.Join(s.dir, uuid.NewString()+ext)
}

// Save copies r into a freshly allocated temp file. On a copy failure the
// returned Upload still carries the path so the caller can clean it up.
func (s *TempStore) Save(ctx context.Context, r io.Reader, filename string) (*domain.Upload, error) {
	upload := &domain.Upload{
		Path:             s.TempPath(filename),
		OriginalFilename: filename,
	}

	if err := ctx.Err(); err != nil {
		return upload, err
	}

	f, err := os.OpenFile(upload.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return upload, fmt.Errorf("create temp file: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	upload.Size = n
	if copyErr != nil {
		return upload, fmt.Errorf("write upload: %w", copyErr)
	}
	if closeErr != nil {
		return upload, fmt.Errorf("close upload: %w", closeErr)
	}

	if mt, err := mimetype.DetectFile(upload.Path); err == nil {
		upload.ContentType = mt.String()
	}

	return upload, nil
}

// Remove deletes path if it exists. Missing files report ErrNotFound.
func (s *TempStore) Remove(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return os.Remove(path)
}
