package handlers

import (
	"encoding/json"
	"net/http"

	"label-scanner/internal/database"
	"label-scanner/internal/ocr"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *database.DB
	engine ocr.Engine
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, engine ocr.Engine) *HealthHandler {
	return &HealthHandler{db: db, engine: engine}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string   `json:"status"`
	Database string   `json:"database"`
	OCR      ocr.Info `json:"ocr"`
	Message  string   `json:"message,omitempty"`
}

// HealthCheck handles GET /api/health. A missing OCR backend degrades
// the report but does not make the server unhealthy, since text-only
// matching still works.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "healthy",
		Database: "ok",
		OCR:      h.engine.Info(),
	}

	if err := h.db.IsHealthy(); err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		response.Message = err.Error()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(response)
		return
	}

	if !response.OCR.Available {
		response.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
