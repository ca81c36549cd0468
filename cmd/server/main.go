package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"label-scanner/internal/cache"
	"label-scanner/internal/config"
	"label-scanner/internal/database"
	"label-scanner/internal/directory"
	"label-scanner/internal/ocr"
	"label-scanner/internal/server"
	"label-scanner/internal/workers"
)

func main() {
	// Load configuration
	cfg, err := config.LoadServerConfigWithEnvFile("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Database initialized at %s", cfg.DBPath)

	// Recipient directory snapshot, fixed until restart
	names, err := db.Recipients.ActiveNames()
	if err != nil {
		log.Fatalf("Failed to load recipient directory: %v", err)
	}
	dir := directory.New(names)
	log.Printf("Recipient directory loaded (%d entries)", dir.Len())

	// OCR engine and result cache
	engine := ocr.NewEngine(cfg.OCRLanguage)
	if info := engine.Info(); info.Available {
		log.Printf("OCR backend: %s %s", info.Backend, info.Version)
	} else {
		log.Printf("WARN: OCR unavailable (%s), image scans will fail", info.Error)
	}

	cacheManager := cache.NewManager(db.OCRCache, cfg.DisableCache, cfg.CacheTTL)
	defer cacheManager.Close()

	// Background history pruner
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	pruner := workers.NewHistoryPruner(cfg, db.Scans, logger)
	pruner.Start()
	defer pruner.Stop()

	// Router with middleware
	router := server.NewRouter(db, cfg, cacheManager, engine, dir, cfg.DataDir)
	handler := server.Chain(
		router,
		server.LoggingMiddleware,
		server.RecoveryMiddleware,
		server.CORSMiddleware,
		server.ContentTypeMiddleware,
		server.SecurityMiddleware,
	)

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,

		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle server startup and graceful shutdown
	shutdownTimeout := 30 * time.Second
	if err := server.HandleSignals(srv, shutdownTimeout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
