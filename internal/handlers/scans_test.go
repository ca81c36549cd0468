package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"label-scanner/internal/cache"
	"label-scanner/internal/database"
	"label-scanner/internal/directory"
	"label-scanner/internal/ocr"
	"label-scanner/internal/parser"
	"label-scanner/internal/server"
)

// fakeEngine is a canned OCR engine for handler tests.
type fakeEngine struct {
	text string
	err  error
}

func (f *fakeEngine) Recognize(ctx context.Context, imagePath string) (*ocr.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.Result{Text: f.text}, nil
}

func (f *fakeEngine) Info() ocr.Info {
	if f.err != nil {
		return ocr.Info{Available: false, Backend: "fake", Error: f.err.Error()}
	}
	return ocr.Info{Available: true, Backend: "fake"}
}

type testConfig struct {
	disableRateLimit bool
}

func (c *testConfig) GetDisableRateLimit() bool {
	return c.disableRateLimit
}

type testEnv struct {
	db     *database.DB
	engine *fakeEngine
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cacheManager := cache.NewManager(db.OCRCache, false, 5*time.Minute)
	t.Cleanup(cacheManager.Close)

	names, err := db.Recipients.ActiveNames()
	require.NoError(t, err)

	engine := &fakeEngine{text: "To: Ellen Bataglia\nApt 3B"}
	router := server.NewRouter(db, &testConfig{}, cacheManager, engine, directory.New(names), filepath.Join(t.TempDir(), "images"))

	return &testEnv{db: db, engine: engine, router: router}
}

func uploadRequest(t *testing.T, path string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "label.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg, but the fake engine does not care"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func createScan(t *testing.T, env *testEnv) database.Scan {
	t.Helper()

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, "/api/scans"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var scan database.Scan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	return scan
}

func TestCreateScan(t *testing.T) {
	env := newTestEnv(t)

	scan := createScan(t, env)

	assert.NotZero(t, scan.ID)
	assert.Equal(t, "Ellen Bataglia", scan.RecipientName)
	assert.Equal(t, "3B", scan.Apartment)
	assert.Equal(t, "To: Ellen Bataglia\nApt 3B", scan.ExtractedText)
	assert.Empty(t, scan.Barcode)
	require.NotEmpty(t, scan.Matches)
	assert.Equal(t, "Ellen Bataglia", scan.Matches[0].Recipient)
	assert.FileExists(t, scan.ImagePath)
}

func TestCreateScan_MissingImage(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no image here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/scans", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScan_OCRUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.engine.err = ocr.ErrUnavailable

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, uploadRequest(t, "/api/scans"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetScans(t *testing.T) {
	env := newTestEnv(t)

	first := createScan(t, env)
	time.Sleep(5 * time.Millisecond)
	second := createScan(t, env)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var scans []database.Scan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scans))
	require.Len(t, scans, 2)
	assert.Equal(t, second.ID, scans[0].ID)
	assert.Equal(t, first.ID, scans[1].ID)

	// Limit caps the result
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scans))
	assert.Len(t, scans, 1)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans?limit=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScanByID(t *testing.T) {
	env := newTestEnv(t)
	scan := createScan(t, env)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/api/scans/%d", scan.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got database.Scan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, scan.ID, got.ID)
	assert.NotEmpty(t, got.Matches)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scans/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteScan(t *testing.T) {
	env := newTestEnv(t)
	scan := createScan(t, env)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("DELETE", fmt.Sprintf("/api/scans/%d", scan.ID), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoFileExists(t, scan.ImagePath)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/api/scans/%d", scan.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/scans/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRescanScan(t *testing.T) {
	env := newTestEnv(t)
	scan := createScan(t, env)

	// The label reads differently after cleaning the camera lens
	env.engine.text = "To: Mary Johnson\nUnit 7"

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/api/scans/%d/rescan", scan.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated database.Scan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Mary Johnson", updated.RecipientName)
	assert.Equal(t, "7", updated.Apartment)
	assert.Equal(t, 1, updated.RescanCount)
	require.NotEmpty(t, updated.Matches)
	assert.Equal(t, "Mary Johnson", updated.Matches[0].Recipient)

	// Immediate retry is rate limited
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/api/scans/%d/rescan", scan.ID), nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Unless forced
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/api/scans/%d/rescan?force=true", scan.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/scans/9999/rescan", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchText(t *testing.T) {
	env := newTestEnv(t)

	body := bytes.NewBufferString(`{"text": "package for mary johnson apt 12"}`)
	req := httptest.NewRequest("POST", "/api/scans/text", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RecipientName string                  `json:"recipient_name"`
		Apartment     string                  `json:"apartment"`
		Matches       []parser.MatchCandidate `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12", resp.Apartment)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Mary Johnson", resp.Matches[0].Recipient)

	// Nothing was persisted
	scans, err := env.db.Scans.GetAll(0)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestMatchText_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/scans/text", bytes.NewBufferString(`{"text": "   "}`))
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/scans/text", bytes.NewBufferString(`not json`))
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
