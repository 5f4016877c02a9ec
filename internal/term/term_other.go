//go:build !unix

package term

type Terminal struct{}

func Open() (*Terminal, error) { return nil, ErrNotTerminal }

func (t *Terminal) Close() error { return nil }

func (t *Terminal) Size() (int, int) { return 80, 24 }

func (t *Terminal) ReadAvailable() ([]byte, error) { return nil, nil }

func (t *Terminal) Write(p []byte) error { return ErrNotTerminal }
