package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Scan is one persisted label-scan record: the stored image, the OCR text
// snapshot, the extracted fields, the barcode (if any), and the ranked
// directory matches computed from that snapshot.
type Scan struct {
	ID            int         `json:"id"`
	ImagePath     string      `json:"image_path"`
	ImageSHA256   string      `json:"image_sha256"`
	ExtractedText string      `json:"extracted_text"`
	RecipientName string      `json:"recipient_name"`
	Apartment     string      `json:"apartment"`
	Barcode       string      `json:"barcode,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	LastRescan    *time.Time  `json:"last_rescan,omitempty"`
	RescanCount   int         `json:"rescan_count"`
	Matches       []ScanMatch `json:"matches,omitempty"`
}

// ScanMatch is one entry of a scan's ranked recipient list.
type ScanMatch struct {
	ID        int     `json:"id"`
	ScanID    int     `json:"scan_id"`
	Position  int     `json:"position"`
	Recipient string  `json:"recipient"`
	Score     float64 `json:"score"`
	MatchType string  `json:"match_type"`
}

// Recipient is one directory entry.
type Recipient struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

// ScanStore handles database operations for scans and their matches
type ScanStore struct {
	db *sql.DB
}

func NewScanStore(db *sql.DB) *ScanStore {
	return &ScanStore{db: db}
}

const scanColumns = `id, image_path, image_sha256, extracted_text,
	recipient_name, apartment, barcode, created_at, last_rescan, rescan_count`

func scanRow(row interface{ Scan(...interface{}) error }) (*Scan, error) {
	var s Scan
	err := row.Scan(&s.ID, &s.ImagePath, &s.ImageSHA256, &s.ExtractedText,
		&s.RecipientName, &s.Apartment, &s.Barcode, &s.CreatedAt,
		&s.LastRescan, &s.RescanCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAll returns scan history, newest first. A limit of 0 means no limit.
func (s *ScanStore) GetAll(limit int) ([]Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, *scan)
	}

	return scans, rows.Err()
}

// GetByID returns a scan with its ranked matches attached
func (s *ScanStore) GetByID(id int) (*Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans WHERE id = ?`

	scan, err := scanRow(s.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	matches, err := s.GetMatches(id)
	if err != nil {
		return nil, err
	}
	scan.Matches = matches

	return scan, nil
}

// Create inserts a scan and its ranked matches in one transaction
func (s *ScanStore) Create(scan *Scan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO scans (image_path, image_sha256, extracted_text,
			recipient_name, apartment, barcode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scan.ImagePath, scan.ImageSHA256, scan.ExtractedText,
		scan.RecipientName, scan.Apartment, scan.Barcode, now)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	scan.ID = int(id)
	scan.CreatedAt = now

	if err := insertMatches(tx, scan.ID, scan.Matches); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateResults replaces a scan's OCR results and matches after a rescan
func (s *ScanStore) UpdateResults(scan *Scan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		UPDATE scans SET extracted_text = ?, recipient_name = ?,
			apartment = ?, barcode = ?, last_rescan = ?,
			rescan_count = rescan_count + 1
		WHERE id = ?`,
		scan.ExtractedText, scan.RecipientName, scan.Apartment,
		scan.Barcode, now, scan.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM scan_matches WHERE scan_id = ?`, scan.ID); err != nil {
		return err
	}
	if err := insertMatches(tx, scan.ID, scan.Matches); err != nil {
		return err
	}

	scan.LastRescan = &now
	scan.RescanCount++

	return tx.Commit()
}

func insertMatches(tx *sql.Tx, scanID int, matches []ScanMatch) error {
	for i, match := range matches {
		_, err := tx.Exec(`
			INSERT INTO scan_matches (scan_id, position, recipient, score, match_type)
			VALUES (?, ?, ?, ?, ?)`,
			scanID, i+1, match.Recipient, match.Score, match.MatchType)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", i+1, err)
		}
	}
	return nil
}

// GetMatches returns a scan's ranked matches in rank order
func (s *ScanStore) GetMatches(scanID int) ([]ScanMatch, error) {
	rows, err := s.db.Query(`
		SELECT id, scan_id, position, recipient, score, match_type
		FROM scan_matches WHERE scan_id = ? ORDER BY position`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []ScanMatch
	for rows.Next() {
		var m ScanMatch
		err := rows.Scan(&m.ID, &m.ScanID, &m.Position, &m.Recipient,
			&m.Score, &m.MatchType)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Delete removes a scan; matches go with it via FK cascade
func (s *ScanStore) Delete(id int) error {
	result, err := s.db.Exec("DELETE FROM scans WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListOlderThanNewest returns scans beyond the newest keep entries,
// oldest last. Used by the history pruner.
func (s *ScanStore) ListOlderThanNewest(keep int) ([]Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans
		ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?`

	rows, err := s.db.Query(query, keep)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, *scan)
	}

	return scans, rows.Err()
}

// RecipientStore handles database operations for the recipient directory
type RecipientStore struct {
	db *sql.DB
}

func NewRecipientStore(db *sql.DB) *RecipientStore {
	return &RecipientStore{db: db}
}

// GetAll returns every directory entry in directory (id) order
func (s *RecipientStore) GetAll() ([]Recipient, error) {
	rows, err := s.db.Query("SELECT id, full_name, active FROM recipients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.ID, &r.FullName, &r.Active); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}

	return recipients, rows.Err()
}

// ActiveNames returns the names of active entries in directory order.
// This is the list loaded into the immutable startup directory.
func (s *RecipientStore) ActiveNames() ([]string, error) {
	rows, err := s.db.Query("SELECT full_name FROM recipients WHERE active = TRUE ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
