package adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5002/api", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 20, cfg.Browse.PageSize)
	assert.Equal(t, "-added", cfg.Browse.Ordering)
	assert.Equal(t, 500*time.Millisecond, cfg.Browse.FilterDebounce)
	assert.Equal(t, 300*time.Millisecond, cfg.Browse.SearchDebounce)
	assert.Equal(t, 8, cfg.Browse.QuickSearchSize)
	assert.Equal(t, "auto", cfg.Browse.HasMoreFrom)
	assert.Equal(t, "home", cfg.UI.StartScreen)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`server:
  url: http://catalog.lan:5002/api
browse:
  page_size: 40
  ordering: -rating
  filter_debounce: 250ms
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))
	t.Setenv("GAMEDECK_BROWSE_PAGE_SIZE", "10")

	cfg, err := LoadConfigDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://catalog.lan:5002/api", cfg.Server.URL)
	assert.Equal(t, 10, cfg.Browse.PageSize, "environment wins over the file")
	assert.Equal(t, "-rating", cfg.Browse.Ordering)
	assert.Equal(t, 250*time.Millisecond, cfg.Browse.FilterDebounce)
	assert.Equal(t, 300*time.Millisecond, cfg.Browse.SearchDebounce)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("browse:\n  ordering: popularity\n"), 0644))

	_, err := LoadConfigDir(dir)
	assert.ErrorContains(t, err, "unknown ordering")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.URL = "http://10.0.0.5:5002/api"
	cfg.Browse.SearchDebounce = 150 * time.Millisecond
	cfg.UI.StartScreen = "games"

	require.NoError(t, SaveConfigDir(dir, cfg))
	loaded, err := LoadConfigDir(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLogLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "WARN")

	logger.Info("hidden")
	logger.Warn("shown", "page", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"page":2`)
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "gamedeck.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestLauncher(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotArgs []string
	l := NewLauncher("firefox --new-tab", NullLogger())
	l.start = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, l.Launch("https://example.com/news/1"))
	assert.Equal(t, "firefox", gotName)
	assert.Equal(t, []string{"--new-tab", "https://example.com/news/1"}, gotArgs)

	assert.ErrorContains(t, l.Launch("#"), "not a web link")
	assert.ErrorContains(t, l.Launch("file:///etc/passwd"), "not a web link")

	l.start = func(string, ...string) error { return errors.New("not found") }
	assert.ErrorContains(t, l.Launch("https://example.com"), "failed to open link")
}

func TestLauncherSystemDefault(t *testing.T) {
	t.Parallel()
	l := NewLauncher("", NullLogger())
	name, _ := l.commandLine()
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, "open", name)
	case "windows":
		assert.Equal(t, "cmd", name)
	default:
		assert.Equal(t, "xdg-open", name)
	}
}
