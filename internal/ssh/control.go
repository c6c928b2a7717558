package ssh

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Control addresses a running ControlMaster through its socket. It is a
// plain value and can be copied freely into background tasks.
type Control struct {
	Binary     string
	SocketPath string
	Target     string
}

// CommandError is returned when a control command exits non-zero.
type CommandError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error { return e.Err }

// ControlArgs builds "-S <socket> -O <op> [extra...] <target>".
func (c Control) ControlArgs(op string, extra ...string) []string {
	args := []string{"-S", c.SocketPath, "-O", op}
	args = append(args, extra...)
	return append(args, c.Target)
}

// Check succeeds only when the master answers on its socket.
func (c Control) Check(ctx context.Context) error {
	return c.run(ctx, "check")
}

// Forward asks the master to add a local forward.
func (c Control) Forward(ctx context.Context, spec string) error {
	return c.run(ctx, "forward", "-L", spec)
}

// Cancel asks the master to drop a local forward.
func (c Control) Cancel(ctx context.Context, spec string) error {
	return c.run(ctx, "cancel", "-L", spec)
}

// Exit asks the master to shut down.
func (c Control) Exit(ctx context.Context) error {
	return c.run(ctx, "exit")
}

func (c Control) run(ctx context.Context, op string, extra ...string) error {
	cmd := exec.CommandContext(ctx, c.binary(), c.ControlArgs(op, extra...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Run(); err != nil {
		return &CommandError{
			Op:     op,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return nil
}

func (c Control) binary() string {
	if c.Binary == "" {
		return "ssh"
	}
	return c.Binary
}
