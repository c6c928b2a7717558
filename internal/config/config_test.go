package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "sshTunnelManager/internal/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".ssh", "config"), cfg.General.SSHConfigPath)
	assert.Equal(t, filepath.Join(home, DefaultConfigDir, DefaultSocketDirName), cfg.General.SocketDir)
	assert.Equal(t, "ssh", cfg.General.SSHBinary)
	assert.Equal(t, 500*time.Millisecond, cfg.General.ConnectSettle)
	assert.Equal(t, 10, cfg.General.MaxRecentHosts)
	assert.False(t, cfg.General.AutoRestore)
	assert.True(t, cfg.UI.ShowAllHosts)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.TickRate)
	assert.Equal(t, 16, cfg.UI.NotificationTicks)
	assert.Equal(t, 40, cfg.UI.HealthCheckTicks)
}

func TestLoadFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STM_GENERAL_MAX_RECENT_HOSTS", "3")

	path := filepath.Join(home, "config.toml")
	content := `
[general]
ssh_config_path = "~/work/ssh_config"
auto_restore = true
connect_settle = "1s"

[ui]
show_all_hosts = false
theme = "dracula"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "work", "ssh_config"), cfg.General.SSHConfigPath)
	assert.True(t, cfg.General.AutoRestore)
	assert.Equal(t, time.Second, cfg.General.ConnectSettle)
	assert.Equal(t, 3, cfg.General.MaxRecentHosts)
	assert.False(t, cfg.UI.ShowAllHosts)
	assert.Equal(t, "dracula", cfg.UI.Theme)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\nbroken = "), 0o600))

	cfg, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ConfigError))
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "nested", "config.toml")
	cfg := Default()
	cfg.General.AutoRestore = true
	cfg.General.MaxRecentHosts = 4
	cfg.UI.TickRate = 100 * time.Millisecond

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DefaultFilePerms), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolvePathPrefersExplicitThenEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STM_CONFIG", "/etc/stm.toml")

	assert.Equal(t, "/tmp/x.toml", ResolvePath("/tmp/x.toml"))
	assert.Equal(t, "/etc/stm.toml", ResolvePath(""))

	t.Setenv("STM_CONFIG", "")
	assert.Equal(t, filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), ResolvePath(""))
}
