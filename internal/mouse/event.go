package mouse

import (
	"fmt"
	"strings"
)

// Kind classifies a decoded input record.
type Kind uint8

const (
	Unrecognized Kind = iota
	Move
	WheelUp
	WheelDown
	// Key is a single byte that arrived outside any escape sequence.
	Key
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case WheelUp:
		return "wheel-up"
	case WheelDown:
		return "wheel-down"
	case Key:
		return "key"
	default:
		return "unrecognized"
	}
}

// Event is one decoded record. Col and Row are 1-based terminal cells and are
// only set for Move. Fields keeps the raw parameter text of SGR records.
type Event struct {
	Kind   Kind
	Col    int
	Row    int
	Code   int
	Byte   byte
	Fields []string
}

func (e Event) String() string {
	switch e.Kind {
	case Move:
		return fmt.Sprintf("move(%d,%d)", e.Col, e.Row)
	case Key:
		return fmt.Sprintf("key(%q)", e.Byte)
	case Unrecognized:
		return "unrecognized[" + strings.Join(e.Fields, ";") + "]"
	default:
		return e.Kind.String()
	}
}

// Codes maps SGR button codes to event kinds.
type Codes struct {
	Move      int
	WheelUp   int
	WheelDown int
}

// DefaultCodes are xterm's codes for buttonless motion and the scroll wheel.
func DefaultCodes() Codes {
	return Codes{Move: 35, WheelUp: 64, WheelDown: 65}
}
