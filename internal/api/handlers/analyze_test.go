package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Harshitk-cp/deepfake-api/internal/domain"
	"github.com/Harshitk-cp/deepfake-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportAnalyzer mocks the ReportAnalyzer interface.
type MockReportAnalyzer struct {
	mock.Mock
}

func (m *MockReportAnalyzer) Analyze(ctx context.Context, path string, claimID string) (*domain.ForensicReport, error) {
	args := m.Called(ctx, path, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForensicReport), args.Error(1)
}

// failingUploadStore creates the temp file and then reports a write failure.
type failingUploadStore struct {
	*store.TempStore
}

func (s failingUploadStore) Save(ctx context.Context, r io.Reader, filename string) (*domain.Upload, error) {
	p := s.TempPath(filename)
	if err := os.WriteFile(p, []byte("partial"), 0o600); err != nil {
		return nil, err
	}
	return &domain.Upload{Path: p, OriginalFilename: filename}, errors.New("disk full")
}

func multipartRequest(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTempStore(t *testing.T) *store.TempStore {
	t.Helper()
	s, err := store.NewTempStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files left behind")
}

func TestAnalyze_Success(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)

	report := &domain.ForensicReport{ClaimID: "CLM-42", Verdict: domain.VerdictAuthentic, Confidence: 0.9}
	var seenPath string
	analyzer.On("Analyze", mock.Anything, mock.AnythingOfType("string"), "CLM-42").
		Run(func(args mock.Arguments) {
			seenPath = args.String(1)
			_, err := os.Stat(seenPath)
			assert.NoError(t, err, "upload must exist during analysis")
		}).
		Return(report, nil)

	req := multipartRequest(t, "/analyze?claim_id=CLM-42", "clip.mov", []byte("0123456789"), nil)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.ForensicReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "CLM-42", got.ClaimID)
	assert.Equal(t, domain.VerdictAuthentic, got.Verdict)

	assert.Equal(t, ".mov", filepath.Ext(seenPath))
	assert.Equal(t, uploads.Dir(), filepath.Dir(seenPath))
	assertDirEmpty(t, uploads.Dir())
	analyzer.AssertExpectations(t)
}

func TestAnalyze_ClaimIDFromForm(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)

	analyzer.On("Analyze", mock.Anything, mock.Anything, "CLM-FORM").
		Return(&domain.ForensicReport{ClaimID: "CLM-FORM"}, nil)

	req := multipartRequest(t, "/analyze", "clip.mp4", []byte("x"), map[string]string{"claim_id": "CLM-FORM"})
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	analyzer.AssertExpectations(t)
}

func TestAnalyze_DefaultClaimIDAndExtension(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)

	var seenPath string
	analyzer.On("Analyze", mock.Anything, mock.Anything, domain.DefaultClaimID).
		Run(func(args mock.Arguments) { seenPath = args.String(1) }).
		Return(&domain.ForensicReport{ClaimID: domain.DefaultClaimID}, nil)

	req := multipartRequest(t, "/analyze", "recording", []byte("abc"), nil)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".mp4", filepath.Ext(seenPath))
	assertDirEmpty(t, uploads.Dir())
}

func TestAnalyze_AnalyzerErrorCleansUp(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)

	analyzer.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("decoder exploded"))

	req := multipartRequest(t, "/analyze", "clip", []byte("abc"), nil)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"decoder exploded"}`, rec.Body.String())
	assertDirEmpty(t, uploads.Dir())
}

func TestAnalyze_SaveErrorCleansUp(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(failingUploadStore{uploads}, analyzer)

	req := multipartRequest(t, "/analyze", "clip.mp4", []byte("abc"), nil)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"disk full"}`, rec.Body.String())
	assertDirEmpty(t, uploads.Dir())
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_MissingFile(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"multipart without file part", multipartRequest(t, "/analyze", "", nil, map[string]string{"claim_id": "CLM-1"})},
		{"not multipart", httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("raw")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Analyze(rec, tt.req)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.JSONEq(t, `{"detail":"file is required"}`, rec.Body.String())
		})
	}
	assertDirEmpty(t, uploads.Dir())
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	uploads := newTempStore(t)
	analyzer := new(MockReportAnalyzer)
	h := NewAnalyzeHandler(uploads, analyzer)
	h.SetMaxBytes(64)

	req := multipartRequest(t, "/analyze", "clip.mp4", bytes.Repeat([]byte("x"), 4096), nil)
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
	assertDirEmpty(t, uploads.Dir())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"Deepfake Detection API"}`, rec.Body.String())
}
