package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalHandler manages graceful shutdown of the scanner's HTTP server.
// In-flight scans get the shutdown timeout to finish their OCR pass
// before the listener is torn down.
type SignalHandler struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(server *http.Server, shutdownTimeout time.Duration) *SignalHandler {
	return &SignalHandler{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// WaitForShutdown blocks until SIGINT or SIGTERM, then drains the server.
func (sh *SignalHandler) WaitForShutdown() {
	quit := make(chan os.Signal, 1)

	// SIGINT is sent by Ctrl+C, SIGTERM by process managers
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Received signal %v, draining in-flight scans (up to %v)", sig, sh.shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), sh.shutdownTimeout)
	defer cancel()

	if err := sh.server.Shutdown(ctx); err != nil {
		log.Printf("WARN: Shutdown timed out with scans still running: %v", err)
	} else {
		log.Println("Scanner server shut down cleanly")
	}
}

// HandleSignals starts the server and blocks until a shutdown signal arrives
func HandleSignals(server *http.Server, shutdownTimeout time.Duration) error {
	go func() {
		log.Printf("Label scanner API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	handler := NewSignalHandler(server, shutdownTimeout)
	handler.WaitForShutdown()

	return nil
}
