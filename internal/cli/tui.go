package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sshTunnelManager/internal/ssh"
	"sshTunnelManager/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const shutdownTimeout = 10 * time.Second

var errNotTerminal = errors.New("stm needs an interactive terminal; use `stm hosts` for plain output")

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	e := loadEnv(opts, cmd.ErrOrStderr())
	defer e.Close()

	if !ui.SetTheme(e.cfg.UI.Theme) {
		e.logger.Warn().Str("theme", e.cfg.UI.Theme).Strs("available", ui.ThemeNames()).Msg("Unknown theme, using default")
	}

	model := ui.NewModel(ui.Options{
		Config:  e.cfg,
		Hosts:   e.hosts,
		History: e.history,
		Store:   e.store,
		Transport: ui.NewSSHTransport(ssh.Options{
			Binary:    e.cfg.General.SSHBinary,
			SocketDir: e.cfg.General.SocketDir,
			Settle:    e.cfg.General.ConnectSettle,
			Logger:    e.logger,
		}),
		Logger: e.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigs)
		close(sigs)
	}()
	go func() {
		if _, ok := <-sigs; ok {
			e.logger.Info().Msg("Signal received, quitting")
			p.Quit()
		}
	}()

	if opts.connect != "" {
		go p.Send(ui.ConnectTo(opts.connect))
	}

	e.logger.Info().Str("version", buildVersion()).Msg("Starting")
	final, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if m, ok := final.(ui.Model); ok {
		if err := m.Shutdown(ctx); err != nil {
			e.logger.Error().Err(err).Msg("Shutdown incomplete")
		}
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		e.logger.Error().Err(runErr).Msg("Program exited with error")
		return runErr
	}
	e.logger.Info().Msg("Exited")
	return nil
}
