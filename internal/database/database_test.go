package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(filepath.Join(t.TempDir(), "tennis.db"), "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "rankings", "tournaments", "matches", "sync_runs", "usage_counters"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tennis.db")

	_, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	teardown()

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err, "running migrations twice should be a no-op")
	defer teardown()

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestInitDB_InMemory(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO players (name, country) VALUES ('Rafael Nadal', 'ESP')`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count))
	assert.Equal(t, 1, count)
}
