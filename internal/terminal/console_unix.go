//go:build !windows

package terminal

import (
	"errors"
	"os"
	"syscall"
)

// openConsole prefers the controlling terminal so keys are read even when
// stdin is redirected.
func openConsole() (*os.File, func() error, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return os.Stdin, func() error { return nil }, nil
	}
	return tty, tty.Close, nil
}

// consoleClosed reports a hung-up terminal: reads and ioctls fail with EIO
// once the other side of the tty is gone.
func consoleClosed(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}
