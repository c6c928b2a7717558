//go:build !linux

package ssh

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
