package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "tripshare/internal/errors"
)

// Status message timing
const (
	StatusClearDelay  = 2000 * time.Millisecond // Success message lifetime
	FailureClearDelay = 0                       // Failure message stays until the next copy
)

// UI configuration
const (
	LinkInputWidth  = 60
	MinLinkWidth    = 20
	StatusMaxWidth  = 72
	TripColumnWidth = 30
)

// Defaults
const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultLocale    = "en"
	DefaultCurrency  = "BRL"
	DefaultClipboard = "system"
	DefaultLogLevel  = "warn"
	DBFileName       = "trips.db"
)

// ClipboardBackends lists the accepted values for Config.Clipboard
var ClipboardBackends = []string{"system", "osc52", "command"}

// Config holds runtime settings loaded from file and environment
type Config struct {
	BaseURL           string        `yaml:"base_url"`
	Locale            string        `yaml:"locale"`
	Clipboard         string        `yaml:"clipboard"`
	DBPath            string        `yaml:"db_path"`
	StatusClearDelay  time.Duration `yaml:"status_clear_delay"`
	FailureClearDelay time.Duration `yaml:"failure_clear_delay"`
	LogLevel          string        `yaml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		Locale:            DefaultLocale,
		Clipboard:         DefaultClipboard,
		StatusClearDelay:  StatusClearDelay,
		FailureClearDelay: FailureClearDelay,
		LogLevel:          DefaultLogLevel,
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file and TRIPSHARE_* environment variables, in that order.
func Load(path string) (*Config, error) {
	// A missing .env is fine, a malformed one is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.WrapConfigError(err, ".env")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.WrapConfigError(err, path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.WrapConfigError(err, path)
		}
	}

	cfg.applyEnv()

	if cfg.DBPath == "" {
		dataDir, err := getDataDir()
		if err != nil {
			return nil, apperrors.WrapConfigError(err, "data directory")
		}
		cfg.DBPath = filepath.Join(dataDir, DBFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.WrapConfigError(err, "settings")
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TRIPSHARE_BASE_URL":  &c.BaseURL,
		"TRIPSHARE_LOCALE":    &c.Locale,
		"TRIPSHARE_CLIPBOARD": &c.Clipboard,
		"TRIPSHARE_DB":        &c.DBPath,
		"TRIPSHARE_LOG_LEVEL": &c.LogLevel,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// Validate checks the settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.StatusClearDelay < 0 {
		return fmt.Errorf("status_clear_delay cannot be negative, got %v", c.StatusClearDelay)
	}
	if c.FailureClearDelay < 0 {
		return fmt.Errorf("failure_clear_delay cannot be negative, got %v", c.FailureClearDelay)
	}

	known := false
	for _, b := range ClipboardBackends {
		if c.Clipboard == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown clipboard backend %q (supported: %v)", c.Clipboard, ClipboardBackends)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}

	return nil
}

// getDataDir returns the data directory following XDG standards
func getDataDir() (string, error) {
	if dataDir := os.Getenv("TRIPSHARE_DATA_DIR"); dataDir != "" {
		return dataDir, nil
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "tripshare"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".local", "share", "tripshare"), nil
}
