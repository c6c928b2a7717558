package ui

import (
	"context"
	"time"

	apperr "sshTunnelManager/internal/error"
	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ssh"
	"sshTunnelManager/internal/ui/messages"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// spawn runs fn off the UI loop; its result comes back as a message.
func spawn(fn func() tea.Msg) tea.Cmd {
	return fn
}

// detach runs fn off the UI loop and discards the outcome.
func detach(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func tick(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return messages.TickMsg(t)
	})
}

func connectTask(s Session, timeout time.Duration) tea.Cmd {
	return spawn(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Connect(ctx); err != nil {
			return messages.ConnectFailedMsg{SessionID: s.ID(), Reason: apperr.Reason(err)}
		}
		return messages.ConnectEstablishedMsg{SessionID: s.ID()}
	})
}

// teardownTask disconnects s and reports completion.
func teardownTask(s Session, timeout time.Duration) tea.Cmd {
	return spawn(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = s.Disconnect(ctx)
		return messages.DisconnectedMsg{SessionID: s.ID()}
	})
}

// retireTask disconnects a superseded or failed session; nobody waits for it.
func retireTask(s Session, timeout time.Duration) tea.Cmd {
	return detach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = s.Disconnect(ctx)
	})
}

func healthTask(s Session, timeout time.Duration) tea.Cmd {
	return spawn(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if s.CheckAlive(ctx) {
			return messages.SessionAliveMsg{SessionID: s.ID()}
		}
		return messages.ConnectFailedMsg{SessionID: s.ID(), Reason: "Connection lost"}
	})
}

func toggleTask(tr Transport, ctl ssh.Control, t models.Tunnel, enable bool, timeout time.Duration) tea.Cmd {
	return spawn(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if enable {
			err = tr.EnableTunnel(ctx, ctl, t)
		} else {
			err = tr.DisableTunnel(ctx, ctl, t)
		}
		if err != nil {
			return messages.TunnelFailedMsg{ID: t.ID, Reason: apperr.Reason(err)}
		}
		return messages.TunnelToggledMsg{ID: t.ID, Enabled: enable}
	})
}

// deleteTask disables an enabled tunnel before it is removed.
func deleteTask(tr Transport, ctl ssh.Control, t models.Tunnel, timeout time.Duration) tea.Cmd {
	return spawn(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := tr.DisableTunnel(ctx, ctl, t); err != nil {
			return messages.TunnelDeletedMsg{ID: t.ID, Err: apperr.Reason(err)}
		}
		return messages.TunnelDeletedMsg{ID: t.ID}
	})
}

// persistTask writes a history snapshot. Failures are logged only.
func persistTask(store HistoryStore, rev uint64, h history.History, logger zerolog.Logger) tea.Cmd {
	return detach(func() {
		if err := store.Persist(rev, h); err != nil {
			logger.Error().Err(err).Uint64("rev", rev).Msg("Failed to save history")
		}
	})
}
