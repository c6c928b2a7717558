// Package cli wires configuration, logging, host loading and history into
// the stm commands.
package cli

import (
	"fmt"
	"io"

	"sshTunnelManager/internal/config"
	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/logging"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/sshconfig"
	"sshTunnelManager/internal/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "v0.3.0"
	commit  = ""
)

type rootOptions struct {
	configPath    string
	sshConfigPath string
	connect       string
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "stm",
		Short:         "Manage SSH port forwards over a shared ControlMaster connection",
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Override config file path (default: ~/.config/stm/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.sshConfigPath, "ssh-config", "", "Override the OpenSSH client config to read hosts from")
	cmd.Flags().StringVar(&opts.connect, "connect", "", "Connect to this host on startup")

	cmd.AddCommand(
		newHostsCmd(opts),
		newInitCmd(opts),
	)
	return cmd
}

func buildVersion() string {
	if commit != "" {
		return version + " (" + commit + ")"
	}
	return version
}

// env is everything a command needs after startup.
type env struct {
	cfg     config.Config
	logger  zerolog.Logger
	closer  io.Closer
	hosts   []models.Host
	store   *history.Store
	history history.History
}

func (e *env) Close() error { return e.closer.Close() }

// loadEnv never fails. A broken config falls back to defaults, a broken ssh
// config to no hosts, a broken history to an empty one. An unusable log file
// leaves a no-op logger and is reported once on warn, since nothing else
// would show it.
func loadEnv(opts *rootOptions, warn io.Writer) *env {
	cfg, cfgErr := config.Load(opts.configPath)
	if opts.sshConfigPath != "" {
		cfg.General.SSHConfigPath = utils.ExpandPath(opts.sshConfigPath)
	}

	logger, closer, err := logging.New(cfg.General.LogFile, cfg.General.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(warn, "Warning: logging disabled, cannot open %s: %v\n", cfg.General.LogFile, err)
	}
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("Using default configuration")
	}

	hosts, err := sshconfig.Load(cfg.General.SSHConfigPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.General.SSHConfigPath).Msg("Failed to read ssh config")
	}
	logger.Info().Int("hosts", len(hosts)).Str("path", cfg.General.SSHConfigPath).Msg("Loaded hosts")

	store := history.NewStore(cfg.General.HistoryPath, logger)
	h, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", store.Path()).Msg("Starting with empty history")
		h = history.New()
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		closer:  closer,
		hosts:   hosts,
		store:   store,
		history: h,
	}
}
