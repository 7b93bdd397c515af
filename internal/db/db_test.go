package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := InitDB(filepath.Join(t.TempDir(), "swiss.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB))
	// a second run has nothing to do
	require.NoError(t, RunMigrations(database.DB))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('players', 'tournaments', 'sessions') ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"players", "sessions", "tournaments"}, tables)

	var id int
	err = database.Get(&id, "INSERT INTO players (doc) VALUES (?) RETURNING id", `{"elo":1500}`)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}
