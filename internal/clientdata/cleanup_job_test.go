package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())
	assert.Equal(t, "client_data_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())

	now := time.Now()
	for _, table := range AllTables {
		insertRaw(t, db, table, "expired", now.Add(-time.Hour).Unix())
		insertRaw(t, db, table, "fresh", now.Add(time.Hour).Unix())
	}

	require.NoError(t, job.Run())

	for _, table := range AllTables {
		var keys []string
		rows, err := db.Query("SELECT key FROM " + table)
		require.NoError(t, err)
		for rows.Next() {
			var k string
			require.NoError(t, rows.Scan(&k))
			keys = append(keys, k)
		}
		require.NoError(t, rows.Close())
		assert.Equal(t, []string{"fresh"}, keys, table)
	}
}

func TestCleanupJobRunEmptyTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())
	require.NoError(t, job.Run())
}

func TestCleanupJobRunMissingTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec("DROP TABLE yahoo_metadata")
	require.NoError(t, err)

	job := NewCleanupJob(NewRepository(db), zerolog.Nop())
	assert.Error(t, job.Run())
}
