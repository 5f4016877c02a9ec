package logs

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	std     = log.New(io.Discard, "", log.LstdFlags|log.Lmicroseconds)
)

// SetOutput directs verbose logging to w. A nil writer disables it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		verbose = false
		std.SetOutput(io.Discard)
		return
	}
	verbose = true
	std.SetOutput(w)
}

// OpenFile truncates path and logs to it until the returned closer runs.
func OpenFile(path string) (io.Closer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	SetOutput(f)
	return closerFunc(func() error {
		SetOutput(nil)
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// LogV prints a formatted log message only when verbose logging is enabled.
func LogV(format string, args ...interface{}) {
	if Enabled() {
		std.Printf(format, args...)
	}
}
