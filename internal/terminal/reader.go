// Package terminal provides raw single-key reads from the controlling terminal.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// KeyEOT is the Ctrl-D keystroke. Raw mode disables the terminal's own EOF
// handling, so the reader reports it as io.EOF.
const KeyEOT = 4

// ErrNotTerminal is returned when raw mode cannot be acquired on the input.
var ErrNotTerminal = errors.New("input is not a terminal")

// CharReader reads one keypress at a time without echo.
type CharReader interface {
	ReadRune() (rune, error)
}

// Reader reads keys from a console handle, switching it to raw mode for the
// duration of every read.
type Reader struct {
	in    *os.File
	fd    int
	close func() error
}

// Open selects the platform console and verifies that it supports raw mode.
func Open() (*Reader, error) {
	in, closeFn, err := openConsole()
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		if cerr := closeFn(); cerr != nil {
			// Best-effort close on a handle we will not use.
			_ = cerr
		}
		return nil, ErrNotTerminal
	}
	return &Reader{in: in, fd: fd, close: closeFn}, nil
}

// Close releases the console handle.
func (r *Reader) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// ReadRune blocks until one key is pressed. The previous terminal mode is
// restored before returning, whatever the outcome of the read. A console that
// went away after Open is reported as io.EOF.
func (r *Reader) ReadRune() (ch rune, err error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		if consoleClosed(err) {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}
	defer func() {
		if rerr := term.Restore(r.fd, state); rerr != nil && err == nil && !consoleClosed(rerr) {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
	}()
	ch, err = decodeRune(r.in)
	if err != nil && consoleClosed(err) {
		return 0, io.EOF
	}
	return ch, err
}

// ReadPassword prints prompt and reads a line with echo disabled.
func (r *Reader) ReadPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := term.ReadPassword(r.fd)
	if _, werr := fmt.Fprintln(w); werr != nil {
		// Best-effort newline after the hidden input.
		_ = werr
	}
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// decodeRune reads a single UTF-8 encoded rune one byte at a time, so no
// keystrokes are buffered ahead of the caller.
func decodeRune(src io.Reader) (rune, error) {
	var buf [utf8.UTFMax]byte
	n := 0
	for n < len(buf) {
		if _, err := io.ReadFull(src, buf[n:n+1]); err != nil {
			return 0, err
		}
		n++
		if utf8.FullRune(buf[:n]) {
			break
		}
	}
	if n == 1 && buf[0] == KeyEOT {
		return 0, io.EOF
	}
	ch, _ := utf8.DecodeRune(buf[:n])
	return ch, nil
}
