package domain

import (
	"context"
	"io"
)

// Upload is a received file persisted to scoped temporary storage.
type Upload struct {
	Path             string `json:"path"`
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"`
	ContentType      string `json:"content_type"`
}

// UploadStore owns the lifecycle of temporary upload files.
type UploadStore interface {
	Save(ctx context.Context, r io.Reader, filename string) (*Upload, error)
	Remove(path string) error
}

// ReportAnalyzer produces a forensic report for a file on disk.
type ReportAnalyzer interface {
	Analyze(ctx context.Context, path string, claimID string) (*ForensicReport, error)
}
