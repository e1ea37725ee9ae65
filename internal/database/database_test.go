package database_test

import (
	"path/filepath"
	"testing"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBRunsMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	for _, table := range []string{"groups", "players", "matches", "participations", "group_stats", "teams"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestInitDBIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	teardown()

	// A second run against the same file must not re-apply migrations.
	db, teardown, err = database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE version_id > 0").Scan(&count))
	assert.Equal(t, 1, count)
}
