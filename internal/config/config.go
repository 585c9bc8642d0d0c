// internal/config/config.go
//
// Runtime configuration for the ColorTab server and terminal client.
//
// Sources, lowest precedence first:
//   1. Built-in defaults.
//   2. Optional YAML file (--config flag or COLORTAB_CONFIG).
//   3. Environment variables, with a .env file loaded via godotenv in development.
//
// Environment variables:
//   PORT, LOG_LEVEL, LOG_PRETTY, DB_PATH, JWT_SECRET, JWT_EXPIRES_DAYS,
//   COOKIE_NAME, CLIENT_ORIGIN, APP_ENV, DAILY_SALT, SESSION_TTL, AUDIO
//
// Game timing is only configurable from the YAML file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/colortab/internal/session"
)

// EnvConfigPath names the env var holding the YAML config path.
const EnvConfigPath = "COLORTAB_CONFIG"

// Config holds every tunable of the process.
type Config struct {
	Port           string
	LogLevel       string
	LogPretty      bool
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	SessionTTL     time.Duration
	Audio          bool
	Timing         session.Timing
}

// fileConfig mirrors the YAML layout. Pointers distinguish "unset" from zero.
type fileConfig struct {
	Server struct {
		Port         *string        `yaml:"port"`
		DBPath       *string        `yaml:"db_path"`
		ClientOrigin *string        `yaml:"client_origin"`
		SessionTTL   *time.Duration `yaml:"session_ttl"`
		DailySalt    *string        `yaml:"daily_salt"`
	} `yaml:"server"`
	Audio struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"audio"`
	Timing session.Timing `yaml:"timing"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:           "5175",
		LogLevel:       "info",
		DBPath:         "./data/colortab.db",
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "colortab_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "local_dev_salt",
		SessionTTL:     2 * time.Hour,
		Audio:          true,
		Timing:         session.DefaultTiming(),
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is empty, COLORTAB_CONFIG is consulted) and the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if v := fc.Server.Port; v != nil {
		c.Port = *v
	}
	if v := fc.Server.DBPath; v != nil {
		c.DBPath = *v
	}
	if v := fc.Server.ClientOrigin; v != nil {
		c.ClientOrigin = *v
	}
	if v := fc.Server.SessionTTL; v != nil {
		c.SessionTTL = *v
	}
	if v := fc.Server.DailySalt; v != nil {
		c.DailySalt = *v
	}
	if v := fc.Audio.Enabled; v != nil {
		c.Audio = *v
	}
	t := fc.Timing
	if t.StartDelay > 0 {
		c.Timing.StartDelay = t.StartDelay
	}
	if t.PulseInterval > 0 {
		c.Timing.PulseInterval = t.PulseInterval
	}
	if t.FlashDuration > 0 {
		c.Timing.FlashDuration = t.FlashDuration
	}
	if t.SettleDelay > 0 {
		c.Timing.SettleDelay = t.SettleDelay
	}
	if t.AdvanceDelay > 0 {
		c.Timing.AdvanceDelay = t.AdvanceDelay
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CookieName = getEnv("COOKIE_NAME", c.CookieName)
	c.ClientOrigin = getEnv("CLIENT_ORIGIN", c.ClientOrigin)
	c.DailySalt = getEnv("DAILY_SALT", c.DailySalt)
	c.Production = strings.EqualFold(os.Getenv("APP_ENV"), "production")
	c.LogPretty = envBool("LOG_PRETTY", c.LogPretty)
	c.Audio = envBool("AUDIO", c.Audio)

	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("JWT_EXPIRES_DAYS=%q: must be a positive integer", v)
		}
		c.JWTExpiresDays = n
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL=%q: %w", v, err)
		}
		c.SessionTTL = d
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
