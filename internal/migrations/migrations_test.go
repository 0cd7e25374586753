package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreAnnotated(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		b, err := fs.ReadFile(files, "sql/"+e.Name())
		require.NoError(t, err)
		body := string(b)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), e.Name())
		assert.Contains(t, body, "-- +goose Down", e.Name())
	}
}

func TestInitMigrationGuardsAuditTable(t *testing.T) {
	b, err := fs.ReadFile(files, "sql/00001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "BEFORE UPDATE OR DELETE ON audit_entries")
	assert.Contains(t, string(b), "CHECK (status IN ('pending', 'approved', 'rejected'))")
}
