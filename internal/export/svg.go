package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/noisefield/internal/render"
)

var ErrBadToken = errors.New("export: malformed cell token")

const cellPrefix = "\x1b[48;2;"

// ParseRow recovers the cell colors of one rendered row.
func ParseRow(row string) ([]render.RGB, error) {
	cells := make([]render.RGB, 0, len(row)/render.MaxTokenLen+1)
	for len(row) > 0 {
		if !strings.HasPrefix(row, cellPrefix) {
			return nil, fmt.Errorf("%w at %q", ErrBadToken, row[:min(len(row), 8)])
		}
		row = row[len(cellPrefix):]
		end := strings.Index(row, "m ")
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated", ErrBadToken)
		}
		parts := strings.Split(row[:end], ";")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, row[:end])
		}
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(p, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
			}
			rgb[i] = uint8(v)
		}
		cells = append(cells, render.RGB{R: rgb[0], G: rgb[1], B: rgb[2]})
		row = row[end+2:]
	}
	return cells, nil
}

// FrameToSVG writes the frame as a grid of rectangles, cellW x cellH pixels
// per cell.
func FrameToSVG(w io.Writer, frame render.Frame, cellW, cellH int) error {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}

	grid := make([][]render.RGB, len(frame.Rows))
	cols := 0
	for i, row := range frame.Rows {
		cells, err := ParseRow(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		grid[i] = cells
		cols = max(cols, len(cells))
	}

	width, height := cols*cellW, len(grid)*cellH

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height)

	for y, cells := range grid {
		for x, c := range cells {
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="#%02x%02x%02x"/>
`, x*cellW, y*cellH, cellW, cellH, c.R, c.G, c.B)
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
