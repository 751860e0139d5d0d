//go:build windows

package csvtable

import "syscall"

// ERROR_SHARING_VIOLATION and ERROR_LOCK_VIOLATION, raised while a spreadsheet
// program has the file open.
const (
	errSharingViolation syscall.Errno = 32
	errLockViolation    syscall.Errno = 33
)

func lockErrno(errno syscall.Errno) bool {
	return errno == errSharingViolation || errno == errLockViolation
}
