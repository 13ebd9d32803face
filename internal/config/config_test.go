package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DATABASE", "tracker.db")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoadDefaultsAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DATABASE=from-file.db\nSMTP_HOST=smtp.example.com\nSMTP_USER=ops@example.com\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("DB_DATABASE", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_USER", "")
	t.Setenv("MAIL_FROM", "")
	// godotenv never overrides variables that already exist, even empty ones
	for _, key := range []string{"DB_DATABASE", "SMTP_HOST", "SMTP_USER", "MAIL_FROM"} {
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DB_TYPE", "")
	t.Setenv("CLIENT_URL", "https://tracker.example.com/")
	t.Setenv("WS_ALLOWED_ORIGINS", "tracker.example.com, localhost:5173")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DBDatabase)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "https://tracker.example.com", cfg.ClientURL)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, "ops@example.com", cfg.MailFrom)
	assert.Equal(t, []string{"tracker.example.com", "localhost:5173"}, cfg.WSOriginPatterns)
}
