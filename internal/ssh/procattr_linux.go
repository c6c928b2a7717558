//go:build linux

package ssh

import "syscall"

// Pdeathsig reaches the ssh process we started. A master that ControlPersist
// has already forked into the background is beyond it and is only reached
// through "-O exit" on its socket, at disconnect or on the next connect.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
}
