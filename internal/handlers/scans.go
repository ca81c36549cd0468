package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"label-scanner/internal/barcode"
	"label-scanner/internal/cache"
	"label-scanner/internal/database"
	"label-scanner/internal/directory"
	"label-scanner/internal/ocr"
	"label-scanner/internal/parser"
	"label-scanner/internal/ratelimit"
)

// maxUploadSize caps label image uploads at 20MB.
const maxUploadSize = 20 << 20

// Config is the subset of server configuration the handlers need
type Config interface {
	GetDisableRateLimit() bool
}

// ScanHandler handles HTTP requests for label scans
type ScanHandler struct {
	db       *database.DB
	config   Config
	cache    *cache.Manager
	engine   ocr.Engine
	detector *barcode.Detector
	matcher  *parser.Matcher
	dir      *directory.Directory
	dataDir  string
}

// NewScanHandler creates a new scan handler. The directory snapshot is
// fixed for the handler's lifetime; recipient changes need a restart.
func NewScanHandler(db *database.DB, config Config, cacheManager *cache.Manager, engine ocr.Engine, dir *directory.Directory, dataDir string) *ScanHandler {
	return &ScanHandler{
		db:       db,
		config:   config,
		cache:    cacheManager,
		engine:   engine,
		detector: barcode.NewDetector(),
		matcher:  parser.NewMatcher(nil),
		dir:      dir,
		dataDir:  dataDir,
	}
}

// scanResult is what image analysis produces before persistence.
type scanResult struct {
	Text    string
	Barcode string
	Fields  parser.ExtractedFields
	Matches []database.ScanMatch
}

// CreateScan handles POST /api/scans. It accepts a multipart upload with
// an "image" field, runs OCR and barcode detection, and stores the scan.
func (h *ScanHandler) CreateScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Printf("ERROR: Invalid multipart form: %v", err)
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imagePath, imageSHA, err := h.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("ERROR: Failed to save upload: %v", err)
		http.Error(w, "Failed to save image", http.StatusInternalServerError)
		return
	}

	result, err := h.analyzeImage(r, imagePath, imageSHA)
	if err != nil {
		os.Remove(imagePath)
		if errors.Is(err, ocr.ErrUnavailable) {
			http.Error(w, "OCR is not available on this server", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR: Failed to analyze image: %v", err)
		http.Error(w, fmt.Sprintf("Failed to analyze image: %v", err), http.StatusInternalServerError)
		return
	}

	scan := &database.Scan{
		ImagePath:     imagePath,
		ImageSHA256:   imageSHA,
		ExtractedText: result.Text,
		RecipientName: result.Fields.RecipientName,
		Apartment:     result.Fields.Apartment,
		Barcode:       result.Barcode,
		Matches:       result.Matches,
	}
	if err := h.db.Scans.Create(scan); err != nil {
		os.Remove(imagePath)
		log.Printf("ERROR: Failed to create scan: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create scan: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(scan)
}

// GetScans handles GET /api/scans
func (h *ScanHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	scans, err := h.db.Scans.GetAll(limit)
	if err != nil {
		log.Printf("ERROR: Failed to get scans: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get scans: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scans)
}

// GetScanByID handles GET /api/scans/{id}
func (h *ScanHandler) GetScanByID(w http.ResponseWriter, r *http.Request) {
	id, ok := scanID(w, r)
	if !ok {
		return
	}

	scan, err := h.db.Scans.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Scan not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get scan %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get scan: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scan)
}

// DeleteScan handles DELETE /api/scans/{id}
func (h *ScanHandler) DeleteScan(w http.ResponseWriter, r *http.Request) {
	id, ok := scanID(w, r)
	if !ok {
		return
	}

	scan, err := h.db.Scans.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Scan not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get scan %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to delete scan: %v", err), http.StatusInternalServerError)
		return
	}

	if err := h.db.Scans.Delete(id); err != nil {
		log.Printf("ERROR: Failed to delete scan %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to delete scan: %v", err), http.StatusInternalServerError)
		return
	}

	if scan.ImagePath != "" {
		if err := os.Remove(scan.ImagePath); err != nil && !os.IsNotExist(err) {
			log.Printf("WARN: Failed to remove image for scan %d: %v", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// RescanScan handles POST /api/scans/{id}/rescan. It reruns OCR and
// matching on the stored image; repeated rescans are rate limited unless
// forced with ?force=true.
func (h *ScanHandler) RescanScan(w http.ResponseWriter, r *http.Request) {
	id, ok := scanID(w, r)
	if !ok {
		return
	}

	scan, err := h.db.Scans.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Scan not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get scan %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get scan: %v", err), http.StatusInternalServerError)
		return
	}

	isForced := r.URL.Query().Get("force") == "true"
	if check := ratelimit.CheckRescanRateLimit(h.config, scan.LastRescan, isForced); check.ShouldBlock {
		http.Error(w, fmt.Sprintf("Rate limit exceeded. Please wait %v before rescanning again",
			check.RemainingTime.Truncate(time.Second)), http.StatusTooManyRequests)
		return
	}

	// Drop the cached OCR text so recognition actually reruns
	if err := h.cache.Invalidate(scan.ImageSHA256); err != nil {
		log.Printf("WARN: Failed to invalidate cache for scan %d: %v", id, err)
	}

	result, err := h.analyzeImage(r, scan.ImagePath, scan.ImageSHA256)
	if err != nil {
		if errors.Is(err, ocr.ErrUnavailable) {
			http.Error(w, "OCR is not available on this server", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR: Failed to rescan %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to rescan: %v", err), http.StatusInternalServerError)
		return
	}

	scan.ExtractedText = result.Text
	scan.RecipientName = result.Fields.RecipientName
	scan.Apartment = result.Fields.Apartment
	if result.Barcode != "" {
		scan.Barcode = result.Barcode
	}
	scan.Matches = result.Matches

	if err := h.db.Scans.UpdateResults(scan); err != nil {
		log.Printf("ERROR: Failed to store rescan results for %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to store rescan results: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scan)
}

// textRequest is the body for text-only analysis.
type textRequest struct {
	Text string `json:"text"`
}

// textResponse carries analysis results for text submitted directly.
type textResponse struct {
	RecipientName string                  `json:"recipient_name"`
	Apartment     string                  `json:"apartment"`
	Matches       []parser.MatchCandidate `json:"matches"`
}

// MatchText handles POST /api/scans/text. It runs field extraction and
// recipient ranking on caller-provided text without storing anything,
// which also keeps the pipeline usable on servers built without OCR.
func (h *ScanHandler) MatchText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Text cannot be empty", http.StatusBadRequest)
		return
	}

	fields := parser.ExtractFields(req.Text)
	resp := textResponse{
		RecipientName: fields.RecipientName,
		Apartment:     fields.Apartment,
		Matches:       h.matcher.RankCandidates(req.Text, h.dir.Names()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// saveUpload writes the uploaded image into the data directory and
// returns its path plus the content hash used as the cache key.
func (h *ScanHandler) saveUpload(src io.Reader, filename string) (string, string, error) {
	if err := os.MkdirAll(h.dataDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create data directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp":
	default:
		ext = ".jpg"
	}

	path := filepath.Join(h.dataDir, fmt.Sprintf("scan-%d%s", time.Now().UnixNano(), ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hash), src); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, hex.EncodeToString(hash.Sum(nil)), nil
}

// analyzeImage runs OCR (through the cache) and barcode detection
// concurrently, then extracts fields and ranks recipients from the text.
func (h *ScanHandler) analyzeImage(r *http.Request, imagePath, imageSHA string) (*scanResult, error) {
	barcodeCh := make(chan string, 1)
	go func() {
		value, err := h.detector.DetectFile(imagePath)
		if err != nil {
			if !errors.Is(err, barcode.ErrNotFound) {
				log.Printf("WARN: Barcode detection failed for %s: %v", imagePath, err)
			}
			barcodeCh <- ""
			return
		}
		barcodeCh <- value
	}()

	text, hit, err := h.cache.Get(imageSHA)
	if err != nil {
		log.Printf("WARN: OCR cache lookup failed: %v", err)
		hit = false
	}
	if !hit {
		recognized, err := h.engine.Recognize(r.Context(), imagePath)
		if err != nil {
			return nil, err
		}
		text = recognized.Text
		if err := h.cache.Set(imageSHA, text); err != nil {
			log.Printf("WARN: Failed to cache OCR text: %v", err)
		}
	}

	result := &scanResult{
		Text:    text,
		Barcode: <-barcodeCh,
		Fields:  parser.ExtractFields(text),
	}
	for i, candidate := range h.matcher.RankCandidates(text, h.dir.Names()) {
		result.Matches = append(result.Matches, database.ScanMatch{
			Position:  i + 1,
			Recipient: candidate.Recipient,
			Score:     candidate.Score,
			MatchType: string(candidate.Type),
		})
	}

	return result, nil
}

// scanID parses the {id} route parameter, writing a 400 on failure.
func scanID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid scan ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
