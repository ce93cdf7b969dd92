package data

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, Init(path))

	db, err := GetDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestInitCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, Init(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	db, err := GetDB(path)
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DataFileName)
	require.NoError(t, Init(path))
	require.NoError(t, Init(path))

	db, err := GetDB(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInitRequiresPath(t *testing.T) {
	assert.Error(t, Init(""))
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, at, parseTime(formatTime(at)))

	assert.Equal(t, "", formatTime(time.Time{}))
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not a time").IsZero())
}
