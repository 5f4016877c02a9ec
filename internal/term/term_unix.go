//go:build unix

package term

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

const readChunk = 1024

type Terminal struct {
	in, out *os.File
	inFd    int
	outFd   int
	old     *xterm.State
	buf     []byte
}

// Open puts stdin in raw mode and switches the screen into render mode.
func Open() (*Terminal, error) {
	t := &Terminal{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, readChunk),
	}
	if !xterm.IsTerminal(t.inFd) || !xterm.IsTerminal(t.outFd) {
		return nil, ErrNotTerminal
	}

	old, err := xterm.MakeRaw(t.inFd)
	if err != nil {
		return nil, fmt.Errorf("term: raw mode: %w", err)
	}
	t.old = old

	if err := t.Write([]byte(Enter)); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Close restores the screen and the original terminal mode.
func (t *Terminal) Close() error {
	_, werr := t.out.Write([]byte(Leave))
	if t.old != nil {
		if err := xterm.Restore(t.inFd, t.old); err != nil {
			return err
		}
		t.old = nil
	}
	return werr
}

// Size returns the terminal size, or 80x24 when it cannot be queried.
func (t *Terminal) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(t.outFd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// ReadAvailable returns whatever input is ready without blocking, at most one
// chunk. It returns nil when nothing is pending.
func (t *Terminal) ReadAvailable() ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return nil, nil
	}

	rn, err := unix.Read(t.inFd, t.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, err
	}
	if rn <= 0 {
		return nil, nil
	}
	out := make([]byte, rn)
	copy(out, t.buf[:rn])
	return out, nil
}

func (t *Terminal) Write(p []byte) error {
	_, err := t.out.Write(p)
	return err
}
