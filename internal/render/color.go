package render

import (
	"math"
	"strconv"
)

// RGB is one cell's background color.
type RGB struct {
	R, G, B uint8
}

// Intensity scales a noise sample by slope and intercept and saturates the
// result to [0, 255]. In-range values truncate toward zero and NaN maps to 0.
func Intensity(noise, slope, intercept float64) int {
	raw := noise*slope + intercept
	switch {
	case math.IsNaN(raw) || raw <= 0:
		return 0
	case raw >= 255:
		return 255
	default:
		return int(raw)
	}
}

// CellColor builds a cell from intensity v: red follows v, green is its
// complement and blue cycles with the frame count.
func CellColor(v int, frame int) RGB {
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	b := frame % 255
	if b < 0 {
		b += 255
	}
	return RGB{R: uint8(v), G: uint8(255 - v), B: uint8(b)}
}

const (
	tokenPrefix = "\x1b[48;2;"
	tokenSuffix = "m "

	// MaxTokenLen is the longest token AppendToken can produce.
	MaxTokenLen = len(tokenPrefix) + 3*3 + 2 + len(tokenSuffix)
)

var decimal [256]string

func init() {
	for i := range decimal {
		decimal[i] = strconv.Itoa(i)
	}
}

// AppendToken appends the truecolor background sequence for c followed by a
// single space.
func AppendToken(dst []byte, c RGB) []byte {
	dst = append(dst, tokenPrefix...)
	dst = append(dst, decimal[c.R]...)
	dst = append(dst, ';')
	dst = append(dst, decimal[c.G]...)
	dst = append(dst, ';')
	dst = append(dst, decimal[c.B]...)
	return append(dst, tokenSuffix...)
}

func Token(c RGB) string {
	return string(AppendToken(make([]byte, 0, MaxTokenLen), c))
}
