package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "state")
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "persist:root", []byte("first")))
	require.NoError(t, s.Set(ctx, "persist:root", []byte("second")))

	got, ok, err := s.Get(ctx, "persist:root")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "persist:root.json", entries[0].Name())
}

func TestKeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "../escape/key", []byte("x")))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")

	_, _, err = s.Get(context.Background(), " ")
	assert.Error(t, err)
}
