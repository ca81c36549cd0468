// Package workers hosts the background jobs that run alongside the HTTP
// server. Currently that is the history pruner, which caps the scan
// history at a configured size.
package workers

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"label-scanner/internal/config"
	"label-scanner/internal/database"
)

// HistoryPruner periodically removes the oldest scans beyond the
// retention limit, along with their stored label images.
type HistoryPruner struct {
	ctx       context.Context
	cancel    context.CancelFunc
	config    *config.Config
	scanStore *database.ScanStore
	paused    atomic.Bool
	logger    *slog.Logger
}

// NewHistoryPruner creates a new history pruner service
func NewHistoryPruner(cfg *config.Config, scanStore *database.ScanStore, logger *slog.Logger) *HistoryPruner {
	ctx, cancel := context.WithCancel(context.Background())
	return &HistoryPruner{
		ctx:       ctx,
		cancel:    cancel,
		config:    cfg,
		scanStore: scanStore,
		logger:    logger,
	}
}

// Start begins the background pruning process
func (p *HistoryPruner) Start() {
	p.logger.Info("Starting history pruner service",
		"keep", p.config.HistoryKeep,
		"interval", p.config.PruneInterval)

	go p.pruneLoop()
}

// Stop gracefully stops the background pruning process
func (p *HistoryPruner) Stop() {
	p.logger.Info("Stopping history pruner service")
	p.cancel()
}

// Pause temporarily pauses pruning
func (p *HistoryPruner) Pause() {
	p.paused.Store(true)
	p.logger.Info("History pruner paused")
}

// Resume resumes pruning
func (p *HistoryPruner) Resume() {
	p.paused.Store(false)
	p.logger.Info("History pruner resumed")
}

// IsPaused returns true if the pruner is currently paused
func (p *HistoryPruner) IsPaused() bool {
	return p.paused.Load()
}

// IsRunning returns true if the pruner is currently running
func (p *HistoryPruner) IsRunning() bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
		return true
	}
}

// pruneLoop is the main background loop that performs periodic pruning
func (p *HistoryPruner) pruneLoop() {
	ticker := time.NewTicker(p.config.PruneInterval)
	defer ticker.Stop()

	// Perform an initial prune after a short delay
	initialDelay := time.NewTimer(30 * time.Second)
	defer initialDelay.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Info("History pruner stopped")
			return

		case <-initialDelay.C:
			p.PruneOnce()

		case <-ticker.C:
			p.PruneOnce()
		}
	}
}

// PruneOnce removes scans beyond the retention limit. It is exported so
// tests and shutdown paths can trigger a cycle directly.
func (p *HistoryPruner) PruneOnce() {
	if p.paused.Load() {
		p.logger.Debug("Pruning paused, skipping cycle")
		return
	}

	old, err := p.scanStore.ListOlderThanNewest(p.config.HistoryKeep)
	if err != nil {
		p.logger.Error("Failed to list scans for pruning", "error", err)
		return
	}
	if len(old) == 0 {
		p.logger.Debug("No scans beyond retention limit")
		return
	}

	pruned := 0
	for _, scan := range old {
		if err := p.scanStore.Delete(scan.ID); err != nil {
			p.logger.Error("Failed to prune scan", "id", scan.ID, "error", err)
			continue
		}
		if scan.ImagePath != "" {
			if err := os.Remove(scan.ImagePath); err != nil && !os.IsNotExist(err) {
				p.logger.Warn("Failed to remove pruned label image",
					"id", scan.ID, "path", scan.ImagePath, "error", err)
			}
		}
		pruned++
	}

	p.logger.Info("Pruned scan history", "removed", pruned, "keep", p.config.HistoryKeep)
}
