// Package mouse decodes the terminal's SGR extended mouse protocol.
//
// Records have the form ESC [ < Pb ; Px ; Py followed by M (press or motion)
// or m (release). The decoder is chunk oriented: bytes of a sequence that is
// still incomplete at the end of a chunk are kept and prefixed to the next
// one. Malformed records become Unrecognized events and decoding resumes after
// them.
package mouse

import (
	"strconv"
	"strings"
)

const (
	esc = 0x1b

	// MaxPending bounds the parameter bytes kept for one unterminated sequence.
	MaxPending = 32
)

type Decoder struct {
	codes   Codes
	pending []byte
	// skip is set while the tail of an overlong sequence is being dropped; it
	// reports the byte that ends that sequence.
	skip func(byte) bool
}

func NewDecoder(codes Codes) *Decoder {
	return &Decoder{codes: codes, pending: make([]byte, 0, 64)}
}

// Pending returns the number of carried-over bytes.
func (d *Decoder) Pending() int { return len(d.pending) }

func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.skip = nil
}

// Decode parses chunk, preceded by any bytes left over from the previous call.
//
// A lone ESC left over from the previous call is the Escape key unless chunk
// continues it with '['; it is then reported as Unrecognized before chunk is
// decoded. An empty chunk flushes it the same way.
func (d *Decoder) Decode(chunk []byte) []Event {
	var events []Event
	if len(d.pending) == 1 && d.pending[0] == esc && (len(chunk) == 0 || chunk[0] != '[') {
		events = append(events, unrecognized(nil))
		d.pending = d.pending[:0]
	}

	data := chunk
	if len(d.pending) > 0 {
		d.pending = append(d.pending, chunk...)
		data = d.pending
	}

	i := 0
	for i < len(data) {
		if d.skip != nil {
			i += d.discard(data[i:])
			continue
		}
		if data[i] != esc {
			events = append(events, Event{Kind: Key, Byte: data[i]})
			i++
			continue
		}
		n, ev, skip := d.parseEscape(data[i:])
		if n == 0 {
			break
		}
		events = append(events, ev)
		i += n
		d.skip = skip
	}

	d.pending = append(d.pending[:0], data[i:]...)
	return events
}

// discard drops bytes up to and including the terminator of an overlong
// sequence. A new ESC ends the drop without being consumed.
func (d *Decoder) discard(data []byte) int {
	for j, b := range data {
		if b == esc {
			d.skip = nil
			return j
		}
		if d.skip(b) {
			d.skip = nil
			return j + 1
		}
	}
	return len(data)
}

// parseEscape consumes one sequence starting at ESC. It returns 0 when the
// sequence is not complete yet, and a non-nil skip when the sequence ran past
// MaxPending and its remainder must be dropped.
func (d *Decoder) parseEscape(data []byte) (int, Event, func(byte) bool) {
	if len(data) < 2 {
		return 0, Event{}, nil
	}
	if data[1] == esc {
		return 1, unrecognized(nil), nil
	}
	if data[1] != '[' {
		return 2, unrecognized(data[1:2]), nil
	}
	if len(data) < 3 {
		return 0, Event{}, nil
	}
	if data[2] != '<' {
		return scan(data, 2, isFinalByte, func(end int) Event {
			return unrecognized(data[2 : end+1])
		})
	}
	return scan(data, 3, isTerminator, func(end int) Event {
		return d.classify(data[3:end])
	})
}

// scan looks for a terminator at or after start. A new ESC ends the current
// sequence early as unrecognized, and so does running past MaxPending bytes;
// in that case term is returned so the rest of the sequence can be dropped.
func scan(data []byte, start int, term func(byte) bool, complete func(int) Event) (int, Event, func(byte) bool) {
	for j := start; j < len(data); j++ {
		switch {
		case term(data[j]):
			return j + 1, complete(j), nil
		case data[j] == esc:
			return j, unrecognized(data[start:j]), nil
		case j-start >= MaxPending:
			return j + 1, unrecognized(data[start : j+1]), term
		}
	}
	return 0, Event{}, nil
}

func (d *Decoder) classify(params []byte) Event {
	fields := strings.Split(string(params), ";")
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return Event{Kind: Unrecognized, Fields: fields}
	}

	switch {
	case code == d.codes.Move:
		if len(fields) < 3 {
			break
		}
		col, errX := strconv.Atoi(fields[1])
		row, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			break
		}
		return Event{Kind: Move, Code: code, Col: col, Row: row}
	case code == d.codes.WheelUp:
		return Event{Kind: WheelUp, Code: code}
	case code == d.codes.WheelDown:
		return Event{Kind: WheelDown, Code: code}
	}
	return Event{Kind: Unrecognized, Code: code, Fields: fields}
}

func unrecognized(raw []byte) Event {
	return Event{Kind: Unrecognized, Fields: strings.Split(string(raw), ";")}
}

func isTerminator(b byte) bool { return b == 'M' || b == 'm' }

func isFinalByte(b byte) bool { return b >= 0x40 && b <= 0x7e }
