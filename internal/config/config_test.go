package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tripshare/internal/errors"
)

func TestTimingConstants(t *testing.T) {
	if StatusClearDelay != 2000*time.Millisecond {
		t.Errorf("Expected StatusClearDelay to be 2000ms, got %v", StatusClearDelay)
	}

	if FailureClearDelay != 0 {
		t.Errorf("Expected failure messages to stay, got FailureClearDelay %v", FailureClearDelay)
	}
}

func TestUIConstants(t *testing.T) {
	if LinkInputWidth < MinLinkWidth {
		t.Errorf("LinkInputWidth (%d) should be >= MinLinkWidth (%d)", LinkInputWidth, MinLinkWidth)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRIPSHARE_DATA_DIR", "/tmp/tripshare-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "system", cfg.Clipboard)
	assert.Equal(t, StatusClearDelay, cfg.StatusClearDelay)
	assert.Equal(t, filepath.Join("/tmp/tripshare-test", DBFileName), cfg.DBPath)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "tripshare.yaml")
	content := []byte(`
base_url: https://trips.example.com
locale: pt-BR
clipboard: osc52
db_path: /var/lib/tripshare/trips.db
status_clear_delay: 3s
failure_clear_delay: 10s
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("TRIPSHARE_CLIPBOARD", "command")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://trips.example.com", cfg.BaseURL)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "command", cfg.Clipboard, "environment should win over file")
	assert.Equal(t, "/var/lib/tripshare/trips.db", cfg.DBPath)
	assert.Equal(t, 3*time.Second, cfg.StatusClearDelay)
	assert.Equal(t, 10*time.Second, cfg.FailureClearDelay)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("TRIPSHARE_DATA_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRIPSHARE_LOCALE=pt-BR\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TRIPSHARE_LOCALE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.Locale)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("TRIPSHARE_DATA_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD!KEY=1\n"), 0o644))

	_, err := Load("")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeConfig, appErr.Type)
	assert.Equal(t, ".env", appErr.Context["source"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative delay", func(c *Config) { c.StatusClearDelay = -time.Second }, false},
		{"negative failure delay", func(c *Config) { c.FailureClearDelay = -time.Second }, false},
		{"unknown backend", func(c *Config) { c.Clipboard = "carrier-pigeon" }, false},
		{"relative base url", func(c *Config) { c.BaseURL = "/t" }, false},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("/nonexistent/tripshare.yaml")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
