// Package render turns a slice through 3-D noise space into rows of
// truecolor terminal cells.
//
// Each cell is one background-color escape followed by a space. Rows are
// returned as separate strings so the caller can interleave cursor movement.
package render

import (
	"math"
	"strings"
	"sync"

	"github.com/san-kum/noisefield/internal/anim"
	"github.com/san-kum/noisefield/internal/cache"
	"github.com/san-kum/noisefield/internal/noise"
)

const (
	DefaultXDensity = 10.0
	DefaultYDensity = 5.0
)

type Options struct {
	Width, Height int
	// XDensity and YDensity are cells per unit of noise space.
	XDensity float64
	YDensity float64
	// Workers splits the rows into bands rendered concurrently, each with its
	// own cache. Rows are handed to bands by their quantized y, so a cache key
	// only ever lives in one band's cache.
	Workers int
	// Cache defaults to cache.DefaultOptions when left zero.
	Cache cache.Options
}

func (o Options) normalized() Options {
	if o.Width < 0 {
		o.Width = 0
	}
	if o.Height < 0 {
		o.Height = 0
	}
	if !(o.XDensity > 0) {
		o.XDensity = DefaultXDensity
	}
	if !(o.YDensity > 0) {
		o.YDensity = DefaultYDensity
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Height > 0 && o.Workers > o.Height {
		o.Workers = o.Height
	}
	if o.Cache == (cache.Options{}) {
		o.Cache = cache.DefaultOptions()
	}
	return o
}

type Frame struct {
	Rows []string
}

// String concatenates the rows without separators.
func (f Frame) String() string {
	return strings.Join(f.Rows, "")
}

type band struct {
	rows   []int
	cache  *cache.Cache
	buf    []byte
	lo, hi float64
}

type Renderer struct {
	src       noise.Source
	opts      Options
	precision int
	bands     []*band
}

func NewRenderer(src noise.Source, opts Options) *Renderer {
	r := &Renderer{src: src}
	r.rebuild(opts)
	return r
}

func (r *Renderer) rebuild(opts Options) {
	opts = opts.normalized()
	r.opts = opts

	n := opts.Workers
	r.bands = make([]*band, n)
	for i := range r.bands {
		r.bands[i] = &band{
			rows:  make([]int, 0, opts.Height/n+1),
			cache: cache.New(r.src, opts.Cache),
			buf:   make([]byte, 0, opts.Width*MaxTokenLen),
		}
	}
	r.precision = r.bands[0].cache.Options().Precision
}

// assign hands every row to the band owning its quantized y. Fibonacci
// hashing spreads consecutive keys, which step by more than one at fine
// precision.
func (r *Renderer) assign(yOffset float64) {
	n := uint64(len(r.bands))
	for _, b := range r.bands {
		b.rows = b.rows[:0]
	}
	for y := 0; y < r.opts.Height; y++ {
		ky := cache.Quantize(cache.Coord{Y: r.rowPos(y, yOffset)}, r.precision).Y
		i := (uint64(ky) * 0x9e3779b97f4a7c15 >> 32) % n
		r.bands[i].rows = append(r.bands[i].rows, y)
	}
}

func (r *Renderer) rowPos(y int, yOffset float64) float64 {
	return float64(y)/r.opts.YDensity + yOffset
}

func (r *Renderer) Width() int  { return r.opts.Width }
func (r *Renderer) Height() int { return r.opts.Height }

func (r *Renderer) Options() Options { return r.opts }

// Resize rebuilds buffers and caches for new grid dimensions. Equal
// dimensions keep the warm caches.
func (r *Renderer) Resize(width, height int) bool {
	if width == r.opts.Width && height == r.opts.Height {
		return false
	}
	opts := r.opts
	opts.Width, opts.Height = width, height
	r.rebuild(opts)
	return true
}

// Render draws one frame for st. The raw noise extrema seen while rendering
// are folded into st via Widen; nothing else in st is modified.
func (r *Renderer) Render(st *anim.State) Frame {
	view := st.Snapshot()
	rows := make([]string, r.opts.Height)

	if len(r.bands) == 1 {
		b := r.bands[0]
		b.rows = b.rows[:0]
		for y := 0; y < r.opts.Height; y++ {
			b.rows = append(b.rows, y)
		}
		b.render(&view, r, rows)
	} else {
		r.assign(view.YOffset)
		var wg sync.WaitGroup
		for _, b := range r.bands {
			wg.Add(1)
			go func(b *band) {
				defer wg.Done()
				b.render(&view, r, rows)
			}(b)
		}
		wg.Wait()
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range r.bands {
		lo = math.Min(lo, b.lo)
		hi = math.Max(hi, b.hi)
	}
	st.Widen(lo, hi)

	return Frame{Rows: rows}
}

// render fills the band's rows. view must not change while it runs.
func (b *band) render(view *anim.State, r *Renderer, rows []string) {
	opts := r.opts
	b.lo, b.hi = math.Inf(1), math.Inf(-1)
	z := view.ZOffset

	for _, y := range b.rows {
		ypos := r.rowPos(y, view.YOffset)
		buf := b.buf[:0]
		for x := 0; x < opts.Width; x++ {
			xpos := float64(x)/opts.XDensity + view.XOffset
			v := b.cache.Lookup(cache.Coord{X: xpos, Y: ypos, Z: z})
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				if v < b.lo {
					b.lo = v
				}
				if v > b.hi {
					b.hi = v
				}
			}
			level := Intensity(v, view.Slope, view.Intercept)
			buf = AppendToken(buf, CellColor(level, view.FrameCount))
		}
		rows[y] = string(buf)
		b.buf = buf
	}
}

// CacheStats sums the statistics of every band's cache.
func (r *Renderer) CacheStats() cache.Stats {
	var total cache.Stats
	for _, b := range r.bands {
		total = total.Add(b.cache.Stats())
	}
	return total
}

func (r *Renderer) CacheLen() int {
	n := 0
	for _, b := range r.bands {
		n += b.cache.Len()
	}
	return n
}
