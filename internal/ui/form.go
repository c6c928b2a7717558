package ui

import (
	"fmt"
	"strconv"
	"strings"

	apperr "sshTunnelManager/internal/error"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField int

const (
	fieldLocalPort formField = iota
	fieldRemoteHost
	fieldRemotePort
	fieldCount
)

const defaultRemoteHost = "localhost"

// tunnelForm is the add-tunnel dialog. err is scoped to errField and is
// cleared as soon as the user edits anything.
type tunnelForm struct {
	inputs   [fieldCount]textinput.Model
	focus    formField
	err      string
	errField formField
}

// tunnelSpec is a validated form submission.
type tunnelSpec struct {
	LocalPort  int
	RemoteHost string
	RemotePort int
}

func newTunnelForm() tunnelForm {
	var f tunnelForm

	local := textinput.New()
	local.Placeholder = "8080"
	local.CharLimit = 5
	local.Prompt = ""

	host := textinput.New()
	host.Placeholder = defaultRemoteHost
	host.SetValue(defaultRemoteHost)
	host.CharLimit = 253
	host.Prompt = ""

	remote := textinput.New()
	remote.Placeholder = "80"
	remote.CharLimit = 5
	remote.Prompt = ""

	f.inputs[fieldLocalPort] = local
	f.inputs[fieldRemoteHost] = host
	f.inputs[fieldRemotePort] = remote
	f.setFocus(fieldLocalPort)
	return f
}

func (f *tunnelForm) setFocus(field formField) {
	f.focus = field
	for i := range f.inputs {
		if formField(i) == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *tunnelForm) next() { f.setFocus((f.focus + 1) % fieldCount) }

func (f *tunnelForm) prev() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

// update forwards a key to the focused input.
func (f *tunnelForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return cmd
}

func (f *tunnelForm) fail(field formField, err error) {
	f.err = apperr.Reason(err)
	f.errField = field
	f.setFocus(field)
}

// validate checks the fields in order: local port, remote host, remote
// port, then whether the local port is free. localInUse reports a port
// already claimed by another tunnel; portFree probes the OS.
func (f tunnelForm) validate(localInUse, portFree func(int) bool) (tunnelSpec, formField, error) {
	local, err := parsePort(f.inputs[fieldLocalPort].Value(), "Local port")
	if err != nil {
		return tunnelSpec{}, fieldLocalPort, err
	}
	host := strings.TrimSpace(f.inputs[fieldRemoteHost].Value())
	if host == "" {
		return tunnelSpec{}, fieldRemoteHost, apperr.Validation("Remote host cannot be empty")
	}
	remote, err := parsePort(f.inputs[fieldRemotePort].Value(), "Remote port")
	if err != nil {
		return tunnelSpec{}, fieldRemotePort, err
	}
	if localInUse(local) {
		return tunnelSpec{}, fieldLocalPort, apperr.Validation(fmt.Sprintf("Port %d is already used by another tunnel", local))
	}
	if !portFree(local) {
		return tunnelSpec{}, fieldLocalPort, apperr.Validation(fmt.Sprintf("Port %d is already in use", local))
	}
	return tunnelSpec{LocalPort: local, RemoteHost: host, RemotePort: remote}, 0, nil
}

func parsePort(value, label string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port <= 0 {
		return 0, apperr.Validation(label + " must be a positive number")
	}
	if port > 65535 {
		return 0, apperr.Validation(label + " must be at most 65535")
	}
	return port, nil
}
