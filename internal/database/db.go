package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"label-scanner/internal/directory"
)

// DB wraps the sql.DB connection and provides access to stores
type DB struct {
	*sql.DB
	Scans      *ScanStore
	Recipients *RecipientStore
	OCRCache   *OCRCacheStore
}

// Open opens a database connection and initializes stores
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable foreign key constraints in SQLite
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	database := &DB{
		DB:         db,
		Scans:      NewScanStore(db),
		Recipients: NewRecipientStore(db),
		OCRCache:   NewOCRCacheStore(db),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// migrate creates the database schema
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_path TEXT NOT NULL,
		image_sha256 TEXT NOT NULL,
		extracted_text TEXT NOT NULL,
		recipient_name TEXT NOT NULL,
		apartment TEXT NOT NULL,
		barcode TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_rescan DATETIME,
		rescan_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scan_matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		recipient TEXT NOT NULL,
		score REAL NOT NULL,
		match_type TEXT NOT NULL,
		FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS recipients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		active BOOLEAN DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS ocr_cache (
		image_sha256 TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
	CREATE INDEX IF NOT EXISTS idx_scans_sha256 ON scans(image_sha256);
	CREATE INDEX IF NOT EXISTS idx_scan_matches_scan ON scan_matches(scan_id);
	CREATE INDEX IF NOT EXISTS idx_ocr_cache_expires ON ocr_cache(expires_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return db.seedDefaultRecipients()
}

// seedDefaultRecipients populates the recipient directory on first run.
// Rows are only inserted when the table is empty; the insertion order (id)
// is the directory order used by the matcher for tie-breaking.
func (db *DB) seedDefaultRecipients() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM recipients").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO recipients (full_name, active) VALUES (?, TRUE)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range directory.DefaultNames {
		if _, err := stmt.Exec(name); err != nil {
			return fmt.Errorf("failed to seed recipient %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// IsHealthy checks if the database connection is working
func (db *DB) IsHealthy() error {
	return db.Ping()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
