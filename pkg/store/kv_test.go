package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	disk, err := OpenDiskv(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	lite, err := OpenSQLite(filepath.Join(t.TempDir(), "rowcount.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })
	return map[string]KV{
		"memory": NewMemory(),
		"diskv":  disk,
		"sqlite": lite,
	}
}

// exerciseKV checks the KV contract against any backend.
func exerciseKV(t *testing.T, kv KV) {
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "project:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "project:b", []byte(`{"id":"b"}`)))
	require.NoError(t, kv.Set(ctx, "project:a", []byte(`{"id":"a"}`)))
	require.NoError(t, kv.Set(ctx, "session:a", []byte(`{}`)))
	require.NoError(t, kv.Set(ctx, "project:a", []byte(`{"id":"a2"}`)))

	v, ok, err := kv.Get(ctx, "project:a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"a2"}`, string(v))

	keys, err := kv.List(ctx, "project:")
	require.NoError(t, err)
	assert.Equal(t, []string{"project:a", "project:b"}, keys)

	keys, err = kv.List(ctx, "nothing:")
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, kv.Delete(ctx, "project:a"))
	require.NoError(t, kv.Delete(ctx, "project:a"))
	_, ok, err = kv.Get(ctx, "project:a")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err = kv.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"project:b", "session:a"}, keys)
}

func TestBackends(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			exerciseKV(t, kv)
		})
	}
}

func TestDiskvKeyTransform(t *testing.T) {
	for _, key := range []string{"project:1718000000000", "session:a/b", "plain", "we ird:key"} {
		assert.Equal(t, key, pathToKeyTransform(keyToPathTransform(key)), key)
	}
	pk := keyToPathTransform("project:abc")
	assert.Equal(t, []string{"project"}, pk.Path)
}

func TestLoadBackends(t *testing.T) {
	kv, err := Load(&Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Load(&Config{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	assert.IsType(t, &Disk{}, kv)

	_, err = Load(&Config{Backend: BackendRemote})
	assert.Error(t, err)

	_, err = Load(&Config{Backend: "etcd"})
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROWCOUNT_CONFIG_PATH", dir)
	t.Setenv("ROWCOUNT_BACKEND", BackendSQLite)
	t.Setenv("ROWCOUNT_REMOTE_URL", "http://example.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "http://example.test", cfg.RemoteURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotContains(t, cfg.BasePath(), "~")
}
