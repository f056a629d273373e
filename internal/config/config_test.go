package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE", "")

	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "blog", cfg.DatabaseName)
	assert.True(t, cfg.CompatMode)
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "mongo")
	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("COMPAT_MODE", "false")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
	assert.False(t, cfg.CompatMode)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nSTORAGE=badger\n"), 0o600))

	// t.Setenv registers cleanup; clearing makes godotenv's values visible
	t.Setenv("PORT", "")
	t.Setenv("STORAGE", "")
	os.Unsetenv("PORT")
	os.Unsetenv("STORAGE")

	require.NoError(t, LoadEnv(path))

	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, StorageBadger, cfg.Storage)
}

func TestLoadEnvMissingFile(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Port: 8000, Storage: StorageMemory, LogFormat: "json"}
	require.NoError(t, valid.Validate())

	cases := map[string]Config{
		"port out of range":  {Port: 70000, Storage: StorageMemory, LogFormat: "json"},
		"unknown storage":    {Port: 8000, Storage: "redis", LogFormat: "json"},
		"postgres needs url": {Port: 8000, Storage: StoragePostgres, LogFormat: "json"},
		"mongo needs url":    {Port: 8000, Storage: StorageMongo, LogFormat: "json"},
		"unknown log format": {Port: 8000, Storage: StorageMemory, LogFormat: "xml"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestShippedEnvFileHasNoSecret(t *testing.T) {
	env, err := godotenv.Read(filepath.Join("..", "..", DefaultEnvFile))
	require.NoError(t, err)

	secret, ok := env["JWT_SECRET"]
	assert.True(t, ok)
	assert.Empty(t, secret)
	assert.Equal(t, "true", env["COMPAT_MODE"])
}
