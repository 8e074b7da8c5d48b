package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps commands away from the user's config and log files
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("KINOPICK_LOGGING_FILE", filepath.Join(dir, "kinopick.log"))
	t.Setenv("KINOPICK_CACHE_DIR", filepath.Join(dir, "cache"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
}

func TestAlbumsCommand(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	touch(t, root, "a.jpg")
	touch(t, root, "trip/b.mov")
	touch(t, root, "trip/c.png")
	touch(t, root, "notes.txt")

	cmd := albumsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "(root)  1\ntrip    2\n", out.String())
}

func TestFlagsOverrideConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("picker:\n  min_selection: 0\n  max_selection: 9\n"), 0644))

	var f pickFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", cfgPath, "--mode", "single", "--max", "1", "--sort", "desc", "--no-cache",
	}))

	cfg, err := f.load(cmd, []string{"/photos"})
	require.NoError(t, err)
	assert.Equal(t, "/photos", cfg.Library.Root)
	assert.Equal(t, domain.ModeSingle, cfg.Mode())
	assert.Equal(t, 1, cfg.Picker.MaxSelection)
	assert.Equal(t, domain.SortDescending, cfg.SortDirection())
	assert.False(t, cfg.Cache.Enabled)
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("picker:\n  max_selection: 9\noutput:\n  format: json\n"), 0644))

	var f pickFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath}))

	cfg, err := f.load(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Picker.MaxSelection)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Cache.Enabled)
}

func TestInvalidFlagsRejected(t *testing.T) {
	isolate(t)

	var f pickFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--min", "3", "--max", "2"}))

	_, err := f.load(cmd, nil)
	assert.Error(t, err)
}

func TestConfigInitWritesOnce(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "kinopick.yaml")

	cmd := configCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--config", path})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, path)
	assert.Contains(t, out.String(), path)

	cmd = configCmd()
	cmd.SetArgs([]string{"init", "--config", path})
	assert.Error(t, cmd.Execute(), "refuses to overwrite without --force")

	cmd = configCmd()
	cmd.SetArgs([]string{"init", "--config", path, "--force"})
	assert.NoError(t, cmd.Execute())
}
