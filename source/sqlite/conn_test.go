package sqlite

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"userstream/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	db, err := Open(OpenParams{
		Path:       filepath.Join(t.TempDir(), "users.db"),
		Parameters: url.Values{"_busy_timeout": {"5000"}},
	}, log.NewMock())
	require.NoError(t, err)
	defer db.Close(context.Background())

	assert.Equal(t, Source, db.Dialect())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpen_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Open(OpenParams{}, log.NewMock())
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users.db", DSN(OpenParams{Path: "users.db"}))
	assert.Equal(t, "users.db?_busy_timeout=5000", DSN(OpenParams{Path: "users.db", Parameters: url.Values{"_busy_timeout": {"5000"}}}))
}
