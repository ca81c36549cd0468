package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"label-scanner/internal/directory"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testScan(sha string) *Scan {
	return &Scan{
		ImagePath:     "/tmp/label-" + sha + ".png",
		ImageSHA256:   sha,
		ExtractedText: "To: Jane Doe\nApt 4B",
		RecipientName: "Jane Doe",
		Apartment:     "4B",
		Barcode:       "1Z999AA1234567890",
		Matches: []ScanMatch{
			{Recipient: "Jane Doe", Score: 100, MatchType: "full"},
			{Recipient: "Jane Smith", Score: 30, MatchType: "first_name"},
		},
	}
}

func TestScanStore_CreateAndGetByID(t *testing.T) {
	db := openTestDB(t)

	scan := testScan("abc123")
	require.NoError(t, db.Scans.Create(scan))
	assert.NotZero(t, scan.ID)

	got, err := db.Scans.GetByID(scan.ID)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", got.RecipientName)
	assert.Equal(t, "4B", got.Apartment)
	assert.Equal(t, "1Z999AA1234567890", got.Barcode)
	require.Len(t, got.Matches, 2)
	assert.Equal(t, 1, got.Matches[0].Position)
	assert.Equal(t, "Jane Doe", got.Matches[0].Recipient)
	assert.Equal(t, 2, got.Matches[1].Position)
}

func TestScanStore_GetAllNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for _, sha := range []string{"aaa", "bbb", "ccc"} {
		require.NoError(t, db.Scans.Create(testScan(sha)))
	}

	scans, err := db.Scans.GetAll(0)
	require.NoError(t, err)
	require.Len(t, scans, 3)
	assert.Equal(t, "ccc", scans[0].ImageSHA256)
	assert.Equal(t, "aaa", scans[2].ImageSHA256)

	limited, err := db.Scans.GetAll(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestScanStore_UpdateResults(t *testing.T) {
	db := openTestDB(t)

	scan := testScan("abc123")
	require.NoError(t, db.Scans.Create(scan))

	scan.ExtractedText = "To: John Smith"
	scan.RecipientName = "John Smith"
	scan.Apartment = "Not found"
	scan.Matches = []ScanMatch{{Recipient: "John Smith", Score: 100, MatchType: "full"}}
	require.NoError(t, db.Scans.UpdateResults(scan))

	got, err := db.Scans.GetByID(scan.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.RecipientName)
	assert.Equal(t, 1, got.RescanCount)
	assert.NotNil(t, got.LastRescan)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "John Smith", got.Matches[0].Recipient)
}

func TestScanStore_UpdateResultsMissing(t *testing.T) {
	db := openTestDB(t)

	scan := testScan("abc123")
	scan.ID = 9999
	assert.ErrorIs(t, db.Scans.UpdateResults(scan), sql.ErrNoRows)
}

func TestScanStore_DeleteCascadesMatches(t *testing.T) {
	db := openTestDB(t)

	scan := testScan("abc123")
	require.NoError(t, db.Scans.Create(scan))
	require.NoError(t, db.Scans.Delete(scan.ID))

	_, err := db.Scans.GetByID(scan.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	matches, err := db.Scans.GetMatches(scan.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	assert.ErrorIs(t, db.Scans.Delete(scan.ID), sql.ErrNoRows)
}

func TestScanStore_ListOlderThanNewest(t *testing.T) {
	db := openTestDB(t)

	for _, sha := range []string{"aaa", "bbb", "ccc", "ddd"} {
		require.NoError(t, db.Scans.Create(testScan(sha)))
	}

	old, err := db.Scans.ListOlderThanNewest(2)
	require.NoError(t, err)
	require.Len(t, old, 2)
	assert.Equal(t, "bbb", old[0].ImageSHA256)
	assert.Equal(t, "aaa", old[1].ImageSHA256)

	none, err := db.Scans.ListOlderThanNewest(100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipientStore_SeededDirectory(t *testing.T) {
	db := openTestDB(t)

	names, err := db.Recipients.ActiveNames()
	require.NoError(t, err)
	assert.Equal(t, directory.DefaultNames, names)

	all, err := db.Recipients.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, len(directory.DefaultNames))
	assert.Equal(t, "Ellen Bataglia", all[0].FullName)
	assert.True(t, all[0].Active)
}

func TestOCRCacheStore_SetGetExpire(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.OCRCache.Set("hash1", "To: Jane Doe", time.Hour))

	entry, err := db.OCRCache.Get("hash1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "To: Jane Doe", entry.Text)

	// Replacing an entry keeps the same key
	require.NoError(t, db.OCRCache.Set("hash1", "updated text", time.Hour))
	entry, err = db.OCRCache.Get("hash1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "updated text", entry.Text)

	// An already-expired entry reads as a miss
	require.NoError(t, db.OCRCache.Set("hash2", "stale", -time.Minute))
	entry, err = db.OCRCache.Get("hash2")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Unknown key is a miss, not an error
	entry, err = db.OCRCache.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestOCRCacheStore_DeleteExpired(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.OCRCache.Set("fresh", "text", time.Hour))
	require.NoError(t, db.OCRCache.Set("stale1", "text", -time.Minute))
	require.NoError(t, db.OCRCache.Set("stale2", "text", -time.Minute))

	removed, err := db.OCRCache.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entry, err := db.OCRCache.Get("fresh")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}
