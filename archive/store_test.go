package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(filepath.Join(dir, "results"), nil)
	require.NoError(t, err)

	err = store.Put(context.Background(), "gap_spectrum.csv", []byte("gap,count\n2,10\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "results", "gap_spectrum.csv"))
	require.NoError(t, err)
	assert.Equal(t, "gap,count\n2,10\n", string(data))

	// Overwrite is atomic, last write wins.
	err = store.Put(context.Background(), "gap_spectrum.csv", []byte("gap,count\n2,11\n"))
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "results", "gap_spectrum.csv"))
	require.NoError(t, err)
	assert.Equal(t, "gap,count\n2,11\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "results"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocal_PutNested(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, nil)
	require.NoError(t, err)

	err = store.Put(context.Background(), "run-7/index.html", []byte("<html></html>"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "run-7", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}
