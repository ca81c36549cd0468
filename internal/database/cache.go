package database

import (
	"database/sql"
	"time"
)

// OCRCacheEntry is one persisted OCR result, keyed by image content hash.
type OCRCacheEntry struct {
	ImageSHA256 string    `json:"image_sha256"`
	Text        string    `json:"text"`
	CachedAt    time.Time `json:"cached_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// OCRCacheStore persists OCR results so identical images skip recognition
type OCRCacheStore struct {
	db *sql.DB
}

func NewOCRCacheStore(db *sql.DB) *OCRCacheStore {
	return &OCRCacheStore{db: db}
}

// Get returns the cached text for an image hash, or nil on miss.
// Expired entries are treated as misses and removed.
func (s *OCRCacheStore) Get(imageSHA256 string) (*OCRCacheEntry, error) {
	var entry OCRCacheEntry
	err := s.db.QueryRow(`
		SELECT image_sha256, text, cached_at, expires_at
		FROM ocr_cache WHERE image_sha256 = ?`, imageSHA256).
		Scan(&entry.ImageSHA256, &entry.Text, &entry.CachedAt, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(entry.ExpiresAt) {
		_, _ = s.db.Exec("DELETE FROM ocr_cache WHERE image_sha256 = ?", imageSHA256)
		return nil, nil
	}

	return &entry, nil
}

// Set stores OCR text for an image hash, replacing any previous entry
func (s *OCRCacheStore) Set(imageSHA256, text string, ttl time.Duration) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO ocr_cache (image_sha256, text, cached_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(image_sha256) DO UPDATE SET
			text = excluded.text,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at`,
		imageSHA256, text, now, now.Add(ttl))
	return err
}

// Delete removes a cache entry
func (s *OCRCacheStore) Delete(imageSHA256 string) error {
	_, err := s.db.Exec("DELETE FROM ocr_cache WHERE image_sha256 = ?", imageSHA256)
	return err
}

// DeleteExpired removes all expired entries and reports how many went away
func (s *OCRCacheStore) DeleteExpired() (int, error) {
	result, err := s.db.Exec("DELETE FROM ocr_cache WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
