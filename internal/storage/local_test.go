package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestProvider(t *testing.T) (*LocalProvider, string) {
	t.Helper()
	dir := t.TempDir()
	return NewLocalProvider(dir), dir
}

func TestLocalProvider_PutObject(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	bucket := "models"
	key := "model.gob"
	content := []byte("Test content")

	err := provider.PutObject(context.Background(), bucket, key, bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, bucket, key))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalProvider_PutObjectOverwrites(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	ctx := context.Background()
	require.NoError(t, provider.PutObject(ctx, "models", "model.gob", bytes.NewReader([]byte("first artifact"))))
	require.NoError(t, provider.PutObject(ctx, "models", "model.gob", bytes.NewReader([]byte("second"))))

	data, err := provider.GetObject(ctx, "models", "model.gob")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(filepath.Join(baseDir, "models"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should not be left behind")
}

func TestLocalProvider_NestedKey(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	ctx := context.Background()
	require.NoError(t, provider.PutObject(ctx, "data", "2024/aer_wells.csv", bytes.NewReader([]byte("md_m\n1\n"))))

	_, err := os.Stat(filepath.Join(baseDir, "data", "2024", "aer_wells.csv"))
	require.NoError(t, err)

	data, err := provider.GetObject(ctx, "data", "2024/aer_wells.csv")
	require.NoError(t, err)
	assert.Equal(t, "md_m\n1\n", string(data))
}

func TestLocalProvider_CreateBucket(t *testing.T) {
	provider, baseDir := setupTestProvider(t)

	require.NoError(t, provider.CreateBucket(context.Background(), "models"))
	// Creating an existing bucket is not an error.
	require.NoError(t, provider.CreateBucket(context.Background(), "models"))

	info, err := os.Stat(filepath.Join(baseDir, "models"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalProvider_GetObjectMissing(t *testing.T) {
	provider, _ := setupTestProvider(t)

	_, err := provider.GetObject(context.Background(), "models", "model.gob")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
