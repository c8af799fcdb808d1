package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			JWTSecret: "0123456789abcdef0123456789abcdef",
			JWTIssuer: "traveldiary",
		},
		Storage: StorageConfig{
			Root:          "./uploads",
			ImageMaxBytes: 5 << 20,
			VideoMaxBytes: 50 << 20,
			SweepGrace:    time.Hour,
		},
		Media: MediaConfig{
			MaxDimension:     800,
			JPEGQuality:      80,
			TransformTimeout: 30 * time.Second,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = "short"
		assert.ErrorContains(t, cfg.Validate(), "jwt_secret")
	})

	t.Run("empty storage root", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Root = ""
		assert.ErrorContains(t, cfg.Validate(), "storage.root")
	})

	t.Run("zero max dimension", func(t *testing.T) {
		cfg := validConfig()
		cfg.Media.MaxDimension = 0
		assert.ErrorContains(t, cfg.Validate(), "max_dimension")
	})

	t.Run("quality out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.Media.JPEGQuality = 101
		assert.ErrorContains(t, cfg.Validate(), "jpeg_quality")
	})

	t.Run("negative image cap", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.ImageMaxBytes = -1
		assert.ErrorContains(t, cfg.Validate(), "image_max_bytes")
	})
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_DSN", "postgres://localhost:5432/traveldiary")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./uploads", cfg.Storage.Root)
	assert.Equal(t, 800, cfg.Media.MaxDimension)
	assert.Equal(t, 80, cfg.Media.JPEGQuality)
	assert.Equal(t, int64(5<<20), cfg.Storage.ImageMaxBytes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	require.Error(t, err)
}
