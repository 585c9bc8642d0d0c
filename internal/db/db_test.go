package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, Migrate(d))
	require.NoError(t, Migrate(d))

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	_, err = d.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('1','Ann','x','t')`)
	require.NoError(t, err)
	_, err = d.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ('2','ann','x','t')`)
	assert.Error(t, err, "usernames are unique case-insensitively")
}
