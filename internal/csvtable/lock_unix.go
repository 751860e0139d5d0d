//go:build unix

package csvtable

import "syscall"

func lockErrno(errno syscall.Errno) bool {
	switch errno {
	case syscall.EBUSY, syscall.ETXTBSY, syscall.EAGAIN:
		return true
	}
	return false
}
