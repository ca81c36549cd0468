package server

import (
	"github.com/go-chi/chi/v5"

	"label-scanner/internal/cache"
	"label-scanner/internal/database"
	"label-scanner/internal/directory"
	"label-scanner/internal/handlers"
	"label-scanner/internal/ocr"
)

// NewRouter wires the API routes to their handlers. The directory is the
// recipient snapshot taken at startup; handlers never reload it.
func NewRouter(db *database.DB, cfg handlers.Config, cacheManager *cache.Manager, engine ocr.Engine, dir *directory.Directory, dataDir string) chi.Router {
	scanHandler := handlers.NewScanHandler(db, cfg, cacheManager, engine, dir, dataDir)
	recipientHandler := handlers.NewRecipientHandler(db, dir)
	healthHandler := handlers.NewHealthHandler(db, engine)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/scans", scanHandler.GetScans)
		r.Post("/scans", scanHandler.CreateScan)
		r.Post("/scans/text", scanHandler.MatchText)
		r.Get("/scans/{id}", scanHandler.GetScanByID)
		r.Delete("/scans/{id}", scanHandler.DeleteScan)
		r.Post("/scans/{id}/rescan", scanHandler.RescanScan)

		r.Get("/recipients", recipientHandler.GetRecipients)
		r.Get("/recipients/matches", recipientHandler.MatchQuery)

		r.Get("/health", healthHandler.HealthCheck)
	})

	return r
}
