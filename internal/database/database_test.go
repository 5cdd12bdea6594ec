package database

import (
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "matches", "metrics"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_EnforcesMatchConstraints(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO players (id, name, created_at) VALUES ('p1', 'One', 0), ('p2', 'Two', 0), ('p3', 'Three', 0)`)
	require.NoError(t, err)

	t.Run("rejects same player on both sides", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO matches (id, player1_id, player2_id, start_time, created_at) VALUES ('m1', 'p1', 'p1', 0, 0)`)
		assert.Error(t, err)
	})

	t.Run("rejects winner outside the match", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO matches (id, player1_id, player2_id, start_time, winner_id, created_at) VALUES ('m2', 'p1', 'p2', 0, 'p3', 0)`)
		assert.Error(t, err)
	})

	t.Run("rejects unknown player", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO matches (id, player1_id, player2_id, start_time, created_at) VALUES ('m3', 'p1', 'ghost', 0, 0)`)
		assert.Error(t, err)
	})

	t.Run("restricts deleting a referenced player", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO matches (id, player1_id, player2_id, start_time, created_at) VALUES ('m4', 'p1', 'p2', 0, 0)`)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM players WHERE id = 'p1'`)
		assert.Error(t, err)
	})
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/league.db"

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO players (id, name, created_at) VALUES ('p1', 'One', 0)`)
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer teardown()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&count))
	assert.Equal(t, 1, count, "reopening must keep existing data")
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		name       string
		primaryURL string
		want       string
	}{
		{"local sqlite", "", "sqlite3"},
		{"turso", "libsql://league.turso.io", "turso"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dialectFor(tt.primaryURL)
			assert.Equal(t, tt.want, got)
			require.NoError(t, goose.SetDialect(got), "goose must know the dialect")
		})
	}
	require.NoError(t, goose.SetDialect("sqlite3"))
}
