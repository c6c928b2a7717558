// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperr "sshTunnelManager/internal/error"
	"sshTunnelManager/internal/utils"

	"github.com/spf13/viper"
)

const (
	DefaultConfigFileName  = "config.toml"
	DefaultConfigDir       = ".config/stm"
	DefaultHistoryFileName = "history.json"
	DefaultLogFileName     = "stm.log"
	DefaultSocketDirName   = "sockets"
	DefaultFilePerms       = 0600
	EnvPrefix              = "STM"
)

// Config holds application configuration.
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	UI      UIConfig      `mapstructure:"ui"`
}

// GeneralConfig holds session and storage settings.
type GeneralConfig struct {
	SSHConfigPath  string        `mapstructure:"ssh_config_path"`
	SocketDir      string        `mapstructure:"socket_dir"`
	HistoryPath    string        `mapstructure:"history_path"`
	AutoRestore    bool          `mapstructure:"auto_restore"`
	MaxRecentHosts int           `mapstructure:"max_recent_hosts"`
	SSHBinary      string        `mapstructure:"ssh_binary"`
	ConnectSettle  time.Duration `mapstructure:"connect_settle"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	LogFile        string        `mapstructure:"log_file"`
	LogLevel       string        `mapstructure:"log_level"`
}

// UIConfig holds presentation and timing settings.
type UIConfig struct {
	ShowAllHosts      bool          `mapstructure:"show_all_hosts"`
	Theme             string        `mapstructure:"theme"`
	TickRate          time.Duration `mapstructure:"tick_rate"`
	NotificationTicks int           `mapstructure:"notification_ticks"`
	HealthCheckTicks  int           `mapstructure:"health_check_ticks"`
}

// GetDefaultConfigDir returns ~/.config/stm.
func GetDefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigDir
	}
	return filepath.Join(home, DefaultConfigDir)
}

// GetDefaultConfigPath returns the config file used when neither
// --config nor STM_CONFIG is set.
func GetDefaultConfigPath() string {
	return filepath.Join(GetDefaultConfigDir(), DefaultConfigFileName)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg, _ := decode(newViper())
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	dir := GetDefaultConfigDir()

	v.SetDefault("general.ssh_config_path", "~/.ssh/config")
	v.SetDefault("general.socket_dir", filepath.Join(dir, DefaultSocketDirName))
	v.SetDefault("general.history_path", filepath.Join(dir, DefaultHistoryFileName))
	v.SetDefault("general.auto_restore", false)
	v.SetDefault("general.max_recent_hosts", 10)
	v.SetDefault("general.ssh_binary", "ssh")
	v.SetDefault("general.connect_settle", 500*time.Millisecond)
	v.SetDefault("general.command_timeout", 15*time.Second)
	v.SetDefault("general.log_file", filepath.Join(dir, DefaultLogFileName))
	v.SetDefault("general.log_level", "info")
	v.SetDefault("ui.show_all_hosts", true)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.tick_rate", 250*time.Millisecond)
	v.SetDefault("ui.notification_ticks", 16)
	v.SetDefault("ui.health_check_ticks", 40)

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// ResolvePath picks the config file: explicit path, then STM_CONFIG, then the default.
func ResolvePath(path string) string {
	if path != "" {
		return utils.ExpandPath(path)
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return utils.ExpandPath(env)
	}
	return GetDefaultConfigPath()
}

// Load reads configuration from file and env. Env var overrides use prefix STM_.
// A missing file is not an error. A file that cannot be parsed yields the
// defaults together with a ConfigError so the caller can warn and continue.
func Load(path string) (Config, error) {
	v := newViper()
	path = ResolvePath(path)
	v.SetConfigFile(path)

	var readErr error
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			readErr = apperr.Config("failed to read config "+path, err)
			v = newViper()
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		readErr = apperr.Config("failed to stat config "+path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return Default(), apperr.Config("failed to decode config", err)
	}
	return cfg, readErr
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) normalize() {
	g := &c.General
	g.SSHConfigPath = utils.ExpandPath(g.SSHConfigPath)
	g.SocketDir = utils.ExpandPath(g.SocketDir)
	g.HistoryPath = utils.ExpandPath(g.HistoryPath)
	g.LogFile = utils.ExpandPath(g.LogFile)
	if g.SSHBinary == "" {
		g.SSHBinary = "ssh"
	}
	if g.MaxRecentHosts <= 0 {
		g.MaxRecentHosts = 10
	}
	if g.ConnectSettle < 0 {
		g.ConnectSettle = 0
	}
	if g.CommandTimeout <= 0 {
		g.CommandTimeout = 15 * time.Second
	}

	u := &c.UI
	if u.TickRate <= 0 {
		u.TickRate = 250 * time.Millisecond
	}
	if u.NotificationTicks <= 0 {
		u.NotificationTicks = 16
	}
	if u.HealthCheckTicks <= 0 {
		u.HealthCheckTicks = 40
	}
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	path = ResolvePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Config("failed to create config directory", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("general.ssh_config_path", cfg.General.SSHConfigPath)
	v.Set("general.socket_dir", cfg.General.SocketDir)
	v.Set("general.history_path", cfg.General.HistoryPath)
	v.Set("general.auto_restore", cfg.General.AutoRestore)
	v.Set("general.max_recent_hosts", cfg.General.MaxRecentHosts)
	v.Set("general.ssh_binary", cfg.General.SSHBinary)
	v.Set("general.connect_settle", cfg.General.ConnectSettle.String())
	v.Set("general.command_timeout", cfg.General.CommandTimeout.String())
	v.Set("general.log_file", cfg.General.LogFile)
	v.Set("general.log_level", cfg.General.LogLevel)
	v.Set("ui.show_all_hosts", cfg.UI.ShowAllHosts)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.tick_rate", cfg.UI.TickRate.String())
	v.Set("ui.notification_ticks", cfg.UI.NotificationTicks)
	v.Set("ui.health_check_ticks", cfg.UI.HealthCheckTicks)

	if err := v.WriteConfigAs(path); err != nil {
		return apperr.Config("failed to write config", err)
	}
	if err := os.Chmod(path, DefaultFilePerms); err != nil {
		return apperr.Config("failed to set config permissions", err)
	}
	return nil
}
