package errors

import (
	"errors"
	"strings"
	"syscall"
)

var diskFullPatterns = []string{
	"no space left on device",
	"disk full",
	"enospc",
	"not enough space",
	"insufficient disk space",
}

// IsDiskFull reports whether err indicates that a write ran out of space.
func IsDiskFull(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range diskFullPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
