package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/deepfake-api/internal/api/middleware"
	"github.com/Harshitk-cp/deepfake-api/internal/domain"
	"github.com/Harshitk-cp/deepfake-api/internal/store"
	"go.uber.org/zap"
)

const (
	fileField    = "file"
	claimIDField = "claim_id"

	// Multipart parts above this spill to disk instead of memory.
	multipartMemory = 32 << 20
)

type AnalyzeHandler struct {
	uploads  domain.UploadStore
	analyzer domain.ReportAnalyzer
	maxBytes int64
}

func NewAnalyzeHandler(uploads domain.UploadStore, analyzer domain.ReportAnalyzer) *AnalyzeHandler {
	return &AnalyzeHandler{uploads: uploads, analyzer: analyzer}
}

// SetMaxBytes limits the request body. Zero or less means no limit.
func (h *AnalyzeHandler) SetMaxBytes(n int64) {
	h.maxBytes = n
}

// Analyze accepts a multipart "file" upload and an optional claim_id from the
// query string or form, and responds with the forensic report. Save and
// analysis failures all map to 500.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromContext(r.Context())

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	claimID := r.FormValue(claimIDField)
	if claimID == "" {
		claimID = domain.DefaultClaimID
	}

	upload, err := h.uploads.Save(r.Context(), file, header.Filename)
	if upload != nil {
		defer h.cleanup(logger, upload.Path)
	}
	if err != nil {
		logger.Error("failed to save upload", zap.String("claim_id", claimID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Debug("upload saved",
		zap.String("claim_id", claimID),
		zap.String("filename", upload.OriginalFilename),
		zap.Int64("size", upload.Size),
		zap.String("content_type", upload.ContentType))

	report, err := h.analyzer.Analyze(r.Context(), upload.Path, claimID)
	if err != nil {
		logger.Error("forensic analysis failed", zap.String("claim_id", claimID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

func (h *AnalyzeHandler) cleanup(logger *zap.Logger, path string) {
	if path == "" {
		return
	}
	if err := h.uploads.Remove(path); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Warn("failed to remove temp upload", zap.String("path", path), zap.Error(err))
	}
}
