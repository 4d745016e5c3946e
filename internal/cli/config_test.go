package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("relaxed", false, "")
	return cmd
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DIZIN_RELAXED", "")

	cfg, err := loadConfig(newConfigTestCmd())
	require.NoError(t, err)
	assert.False(t, cfg.Relaxed)
	assert.Empty(t, cfg.Schemas)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	content := "relaxed: true\nschemas:\n  - base.schema\n  - extra.schema\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dizin.yaml"), []byte(content), 0o644))
	chdir(t, dir)
	t.Setenv("DIZIN_RELAXED", "")

	cfg, err := loadConfig(newConfigTestCmd())
	require.NoError(t, err)
	assert.True(t, cfg.Relaxed)
	assert.Equal(t, []string{"base.schema", "extra.schema"}, cfg.Schemas)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dizin.yaml"), []byte("relaxed: false\n"), 0o644))
	chdir(t, dir)
	t.Setenv("DIZIN_RELAXED", "true")

	cfg, err := loadConfig(newConfigTestCmd())
	require.NoError(t, err)
	assert.True(t, cfg.Relaxed)
}

func TestLoadConfigFlagWins(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DIZIN_RELAXED", "false")

	cmd := newConfigTestCmd()
	require.NoError(t, cmd.Flags().Set("relaxed", "true"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.True(t, cfg.Relaxed)
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := newConfigTestCmd()
	require.NoError(t, cmd.Flags().Set("config", "does-not-exist.yaml"))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestLoadConfigInvalidEnvValue(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DIZIN_RELAXED", "maybe")

	_, err := loadConfig(newConfigTestCmd())
	assert.Error(t, err)
}
