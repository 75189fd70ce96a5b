package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	assert.Equal(t, "sqlite", Dialector("pgx", "sqlite::memory:").Name())
	assert.Equal(t, "postgres", Dialector("pgx", "postgres://u:p@localhost/db").Name())
	assert.Equal(t, "postgres", Dialector("pq", "postgres://u:p@localhost/db").Name())
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "pgx", "")
	require.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	gdb, err := Open(context.Background(), "pgx", "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Ping(context.Background(), gdb))
}
