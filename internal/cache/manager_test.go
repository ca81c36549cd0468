package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"label-scanner/internal/database"
)

const testHash = "ab54d286599468c1d1b2e0b01e449d7d336d8575529c63e766e3a7a20ad0b9da"

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestManager_SetAndGet(t *testing.T) {
	db := openTestDB(t)
	manager := NewManager(db.OCRCache, false, 5*time.Minute)
	defer manager.Close()

	require.NoError(t, manager.Set(testHash, "To: John Smith\nApt 4B"))

	text, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "To: John Smith\nApt 4B", text)
}

func TestManager_MissForUnknownHash(t *testing.T) {
	db := openTestDB(t)
	manager := NewManager(db.OCRCache, false, 5*time.Minute)
	defer manager.Close()

	_, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestManager_DatabaseFallback(t *testing.T) {
	db := openTestDB(t)

	// Seed the persistent layer only, simulating a restart.
	require.NoError(t, db.OCRCache.Set(testHash, "Unit 12", 5*time.Minute))

	manager := NewManager(db.OCRCache, false, 5*time.Minute)
	defer manager.Close()

	text, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Unit 12", text)

	// Second read should be served from memory; wipe the DB to prove it.
	require.NoError(t, db.OCRCache.Delete(testHash))
	text, hit, err = manager.Get(testHash)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Unit 12", text)
}

func TestManager_ExpiredEntryMisses(t *testing.T) {
	db := openTestDB(t)
	manager := NewManager(db.OCRCache, false, -1*time.Second)
	defer manager.Close()

	require.NoError(t, manager.Set(testHash, "stale"))

	_, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestManager_Invalidate(t *testing.T) {
	db := openTestDB(t)
	manager := NewManager(db.OCRCache, false, 5*time.Minute)
	defer manager.Close()

	require.NoError(t, manager.Set(testHash, "Suite 300"))
	require.NoError(t, manager.Invalidate(testHash))

	_, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.False(t, hit)

	entry, err := db.OCRCache.Get(testHash)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestManager_Disabled(t *testing.T) {
	db := openTestDB(t)
	manager := NewManager(db.OCRCache, true, 5*time.Minute)
	defer manager.Close()

	require.NoError(t, manager.Set(testHash, "ignored"))

	_, hit, err := manager.Get(testHash)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, manager.IsEnabled())
}
