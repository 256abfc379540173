package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		/* remote exports */
		"page_size": 25,
		"threshold": 5,
		"minio": {"endpoint": "localhost:9000", "secure": true},
		"log_json": true, // trailing comma below
	}`))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 5, cfg.Threshold)
	assert.Equal(t, PolicyThreshold, cfg.Policy)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.True(t, cfg.MinIO.Secure)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, DefaultConfig().CacheBytes, cfg.CacheBytes)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.jsonc"))
	assert.ErrorContains(t, err, "read config")

	_, err = LoadConfig(writeConfig(t, `{"page_size": `))
	assert.ErrorContains(t, err, "invalid JSONC")

	_, err = LoadConfig(writeConfig(t, `{"page_sise": 3}`))
	assert.ErrorContains(t, err, "invalid config")

	_, err = LoadConfig(writeConfig(t, `{"page_size": 0, "policy": "random"}`))
	assert.ErrorContains(t, err, "page_size must be positive")
	assert.ErrorContains(t, err, `unknown policy "random"`)
}

func TestReloadPolicy(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, reloadPolicy(cfg))

	cfg.Threshold = 2
	assert.Equal(t, pagecursor.ThresholdReload{Threshold: 2}, reloadPolicy(cfg))

	cfg.Policy = PolicyPrefetch
	assert.Equal(t, pagecursor.PrefetchReload{Threshold: 2}, reloadPolicy(cfg))

	cfg.Threshold = -1
	assert.Equal(t, pagecursor.PrefetchReload{}, reloadPolicy(cfg))
}

func TestResolveStore(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()

	store, name, remote, err := resolveStore(ctx, filepath.Join("data", "videos.parquet"), cfg)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, store)
	assert.Equal(t, "videos.parquet", name)
	assert.False(t, remote)

	_, _, _, err = resolveStore(ctx, "s3://bucket-only", cfg)
	assert.ErrorContains(t, err, "want s3://bucket/key")

	_, _, _, err = resolveStore(ctx, "gs://bucket/videos.parquet", cfg)
	assert.ErrorContains(t, err, "unsupported scheme")

	_, _, _, err = resolveStore(ctx, "minio://exports/videos.parquet", cfg)
	assert.ErrorContains(t, err, "minio.endpoint")

	cfg.MinIO.Endpoint = "localhost:9000"
	store, name, remote, err = resolveStore(ctx, "minio://exports/2024/videos.parquet", cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Equal(t, "2024/videos.parquet", name)
	assert.True(t, remote)
}
