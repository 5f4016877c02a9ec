// Package term is the raw terminal collaborator of the render loop: raw mode,
// mouse reporting, non-blocking input and single-write frame output.
package term

import "errors"

var ErrNotTerminal = errors.New("term: stdin/stdout is not a terminal")

const (
	// Enter switches to the alternate screen, hides the cursor, disables
	// auto-wrap so a full bottom row cannot scroll, and turns on SGR
	// any-motion mouse reporting.
	Enter = "\x1b[?1049h\x1b[?25l\x1b[?7l\x1b[?1003h\x1b[?1006h\x1b[2J"
	Leave = "\x1b[?1006l\x1b[?1003l\x1b[0m\x1b[?7h\x1b[?25h\x1b[?1049l"

	home      = "\x1b[1;1H"
	reset     = "\x1b[0m"
	nextLine  = "\x1b[1E"
	frameHead = home + reset
)

// Compose appends one full frame to dst: the header line, then every row,
// each followed by a move to the start of the next line.
func Compose(dst []byte, header string, rows []string) []byte {
	dst = append(dst, frameHead...)
	dst = append(dst, header...)
	dst = append(dst, nextLine...)
	for _, row := range rows {
		dst = append(dst, row...)
		dst = append(dst, nextLine...)
	}
	return dst
}
