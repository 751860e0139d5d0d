//go:build !unix && !windows

package csvtable

import "syscall"

func lockErrno(syscall.Errno) bool { return false }
