package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, domain.ModeMultiple, cfg.Mode())
	assert.Equal(t, domain.SortAscending, cfg.SortDirection())
	assert.True(t, cfg.Bounds().Unbounded())
	assert.True(t, cfg.Library.Recursive)
	assert.NotEmpty(t, cfg.Library.Include)
	assert.Equal(t, "paths", cfg.Output.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
library:
  root: /photos
  include_hidden: true
picker:
  mode: single
  max_selection: 1
  sort_direction: desc
  alert_title: Too many
output:
  format: json
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/photos", cfg.Library.Root)
	assert.True(t, cfg.Library.IncludeHidden)
	assert.True(t, cfg.Library.Recursive, "unset keys keep their defaults")
	assert.Equal(t, domain.ModeSingle, cfg.Mode())
	assert.Equal(t, domain.SortDescending, cfg.SortDirection())
	assert.Equal(t, 1, cfg.Bounds().Max)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)

	opts := cfg.PickerOptions()
	assert.Equal(t, "Too many", opts.AlertTitle)
	assert.Equal(t, "OK", opts.AlertButtonTitle)
	assert.True(t, opts.ShowLoadingIndicator)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "picker:\n  max_selection: 3\n")
	t.Setenv("KINOPICK_PICKER_MAX_SELECTION", "7")
	t.Setenv("KINOPICK_OUTPUT_FORMAT", "toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Picker.MaxSelection)
	assert.Equal(t, "toml", cfg.Output.Format)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Picker, cfg.Picker)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"mode":     func(c *Config) { c.Picker.Mode = "several" },
		"sort":     func(c *Config) { c.Picker.SortDirection = "sideways" },
		"format":   func(c *Config) { c.Output.Format = "xml" },
		"bounds":   func(c *Config) { c.Picker.MinSelection, c.Picker.MaxSelection = 5, 2 },
		"single":   func(c *Config) { c.Picker.Mode, c.Picker.MinSelection = "single", 2 },
		"negative": func(c *Config) { c.Picker.MaxSelection = -2 },
		"grid":     func(c *Config) { c.UI.GridColumns = 0 },
		"size cap": func(c *Config) { c.Picker.MaxAssetSize = -1 },
		"theme":    func(c *Config) { c.UI.Theme = "neon" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Picker.Mode = "single"
	cfg.Picker.MaxSelection = 1
	cfg.UI.GridColumns = 6

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Picker, loaded.Picker)
	assert.Equal(t, 6, loaded.UI.GridColumns)
	assert.Equal(t, cfg.Library.Include, loaded.Library.Include)
}
