// Package cache provides a two-level cache for OCR results: a sync.Map
// for fast in-process hits backed by the ocr_cache table so results
// survive restarts. Entries are keyed by the image's SHA-256 so identical
// uploads skip recognition entirely.
package cache

import (
	"fmt"
	"log"
	"sync"
	"time"

	"label-scanner/internal/database"
)

// cachedText is an in-memory entry with its own expiry.
type cachedText struct {
	Text      string
	ExpiresAt time.Time
}

func (c *cachedText) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Manager manages both in-memory and persistent caching of OCR text.
type Manager struct {
	store    *database.OCRCacheStore
	memory   sync.Map // map[string]*cachedText, keyed by image SHA-256
	disabled bool
	ttl      time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a cache manager. When disabled, Get always misses
// and Set is a no-op.
func NewManager(store *database.OCRCacheStore, disabled bool, ttl time.Duration) *Manager {
	manager := &Manager{
		store:    store,
		disabled: disabled,
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	if !disabled {
		go manager.cleanupLoop()
	}

	return manager
}

// Get returns cached OCR text for an image hash. The boolean reports a
// hit; a disabled cache always misses.
func (m *Manager) Get(imageSHA256 string) (string, bool, error) {
	if m.disabled {
		return "", false, nil
	}

	// Check in-memory cache first
	if value, ok := m.memory.Load(imageSHA256); ok {
		cached := value.(*cachedText)
		if !cached.IsExpired() {
			return cached.Text, true, nil
		}
		m.memory.Delete(imageSHA256)
	}

	// Fall through to the database
	entry, err := m.store.Get(imageSHA256)
	if err != nil {
		return "", false, fmt.Errorf("failed to get from database cache: %w", err)
	}
	if entry == nil {
		return "", false, nil
	}

	// Promote to memory for faster access next time
	m.memory.Store(imageSHA256, &cachedText{
		Text:      entry.Text,
		ExpiresAt: time.Now().Add(m.ttl),
	})

	return entry.Text, true, nil
}

// Set stores OCR text in both memory and database.
func (m *Manager) Set(imageSHA256, text string) error {
	if m.disabled {
		return nil
	}

	if err := m.store.Set(imageSHA256, text, m.ttl); err != nil {
		return fmt.Errorf("failed to store in database cache: %w", err)
	}

	m.memory.Store(imageSHA256, &cachedText{
		Text:      text,
		ExpiresAt: time.Now().Add(m.ttl),
	})

	return nil
}

// Invalidate removes a cached result from both levels. Rescans call this
// so a fresh recognition pass actually runs.
func (m *Manager) Invalidate(imageSHA256 string) error {
	if m.disabled {
		return nil
	}

	m.memory.Delete(imageSHA256)

	if err := m.store.Delete(imageSHA256); err != nil {
		return fmt.Errorf("failed to delete from database cache: %w", err)
	}

	return nil
}

// IsEnabled returns true if caching is enabled.
func (m *Manager) IsEnabled() bool {
	return !m.disabled
}

// GetTTL returns the cache TTL duration.
func (m *Manager) GetTTL() time.Duration {
	return m.ttl
}

// cleanupLoop runs periodically to clean up expired entries.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes expired entries from both memory and database.
func (m *Manager) cleanup() {
	memoryCount := 0
	m.memory.Range(func(key, value interface{}) bool {
		if value.(*cachedText).IsExpired() {
			m.memory.Delete(key)
			memoryCount++
		}
		return true
	})

	if removed, err := m.store.DeleteExpired(); err != nil {
		log.Printf("WARN: Failed to clean up expired database cache entries: %v", err)
	} else if removed > 0 || memoryCount > 0 {
		log.Printf("DEBUG: Cleaned up %d memory and %d database cache entries", memoryCount, removed)
	}
}

// Close shuts down the cleanup goroutine.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}
