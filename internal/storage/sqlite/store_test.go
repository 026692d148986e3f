package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "dir.db")

	s, err := New(ctx, path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "persist:root", []byte(`{"v":1}`)))
	require.NoError(t, s.Set(ctx, "persist:root", []byte(`{"v":2}`)))
	require.NoError(t, s.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"v":2}`, string(got))
	assert.Equal(t, path, reopened.Path())
}
