//go:build windows

package terminal

import (
	"errors"
	"os"
	"syscall"
)

// openConsole opens the console input buffer directly.
func openConsole() (*os.File, func() error, error) {
	con, err := os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return con, con.Close, nil
}

func consoleClosed(err error) bool {
	return errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.ERROR_BROKEN_PIPE)
}
