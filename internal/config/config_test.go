package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.AppPort)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 6, cfg.MaxUploadFiles)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 1, cfg.OpenAIMaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.OpenAIRetryWait)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://spareeye.onrender.com"}, cfg.AllowedOrigins())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, 5*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{JWTSecret: "x", StorageDriver: StorageMongo, MaxUploadFiles: 6, MaxUploadBytes: 1}
	assert.NoError(t, valid.Validate())

	t.Run("missing secret", func(t *testing.T) {
		c := valid
		c.JWTSecret = ""
		assert.ErrorContains(t, c.Validate(), "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		c := valid
		c.StorageDriver = "postgres"
		assert.ErrorContains(t, c.Validate(), "postgres")
	})
}
