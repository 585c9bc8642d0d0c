package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colortab/internal/session"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_PRETTY", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS",
		"COOKIE_NAME", "CLIENT_ORIGIN", "APP_ENV", "DAILY_SALT", "SESSION_TTL", "AUDIO", EnvConfigPath,
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "colortab.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, session.DefaultTiming(), cfg.Timing)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, `
server:
  port: "9000"
  session_ttl: 30m
audio:
  enabled: false
timing:
  pulse_interval: 600ms
  settle_delay: 250ms
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.Audio)
	assert.Equal(t, 600*time.Millisecond, cfg.Timing.PulseInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.Timing.SettleDelay)
	assert.Equal(t, session.DefaultTiming().FlashDuration, cfg.Timing.FlashDuration)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "server:\n  port: \"9000\"\n")
	t.Setenv(EnvConfigPath, p)
	t.Setenv("PORT", "7000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("AUDIO", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.True(t, cfg.Production)
	assert.Equal(t, 3, cfg.JWTExpiresDays)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.False(t, cfg.Audio)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "timing:\n  pulse: 1s\n"))
	assert.Error(t, err, "unknown keys are rejected")

	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	_, err = Load("")
	assert.Error(t, err)
}
