// Package cache memoizes noise samples under quantized coordinates.
//
// Coordinates are rounded to a fixed number of decimal digits, so nearby
// samples alias to one entry. When the cache is full, a fixed fraction of the
// oldest-inserted entries is removed in a single batch. Hits do not refresh
// an entry's age.
package cache

import (
	"math"

	"github.com/san-kum/noisefield/internal/noise"
)

const (
	DefaultPrecision     = 1
	DefaultMaxSize       = 2000
	DefaultEvictFraction = 0.5
)

type Coord struct {
	X, Y, Z float64
}

// Key is a Coord rounded to the cache precision, in units of 10^-precision.
type Key struct {
	X, Y, Z int64
}

type Options struct {
	Precision     int
	MaxSize       int
	EvictFraction float64
}

func DefaultOptions() Options {
	return Options{
		Precision:     DefaultPrecision,
		MaxSize:       DefaultMaxSize,
		EvictFraction: DefaultEvictFraction,
	}
}

func (o Options) normalized() Options {
	if o.Precision < 0 {
		o.Precision = 0
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.EvictFraction <= 0 || o.EvictFraction > 1 || math.IsNaN(o.EvictFraction) {
		o.EvictFraction = DefaultEvictFraction
	}
	return o
}

// BatchSize is the number of entries removed by one eviction.
func (o Options) BatchSize() int {
	o = o.normalized()
	n := int(float64(o.MaxSize) * o.EvictFraction)
	if n < 1 {
		n = 1
	}
	return n
}

type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Batches   uint64
}

// HitRatio returns hits over lookups in [0, 1], or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Hits:      s.Hits + o.Hits,
		Misses:    s.Misses + o.Misses,
		Evictions: s.Evictions + o.Evictions,
		Batches:   s.Batches + o.Batches,
	}
}

// Cache is not safe for concurrent use.
type Cache struct {
	src   noise.Source
	opts  Options
	scale float64
	batch int

	values map[Key]float64
	// ring holds keys in insertion order starting at head.
	ring  []Key
	head  int
	count int

	stats Stats
}

func New(src noise.Source, opts Options) *Cache {
	opts = opts.normalized()
	return &Cache{
		src:    src,
		opts:   opts,
		scale:  math.Pow(10, float64(opts.Precision)),
		batch:  opts.BatchSize(),
		values: make(map[Key]float64, opts.MaxSize),
		ring:   make([]Key, opts.MaxSize),
	}
}

// Quantize rounds c to the given number of decimal digits.
func Quantize(c Coord, precision int) Key {
	return quantize(c, math.Pow(10, float64(precision)))
}

func quantize(c Coord, scale float64) Key {
	return Key{
		X: int64(math.Round(c.X * scale)),
		Y: int64(math.Round(c.Y * scale)),
		Z: int64(math.Round(c.Z * scale)),
	}
}

// Lookup returns the cached sample for the bucket containing c. On a miss the
// source is evaluated at c itself, not at the bucket center.
func (c *Cache) Lookup(p Coord) float64 {
	k := quantize(p, c.scale)
	if v, ok := c.values[k]; ok {
		c.stats.Hits++
		return v
	}
	c.stats.Misses++

	v := c.src.Eval3(p.X, p.Y, p.Z)
	if c.count >= len(c.ring) {
		c.evict(c.batch)
	}
	c.values[k] = v
	c.ring[(c.head+c.count)%len(c.ring)] = k
	c.count++
	return v
}

func (c *Cache) evict(n int) {
	if n > c.count {
		n = c.count
	}
	for i := 0; i < n; i++ {
		delete(c.values, c.ring[c.head])
		c.head = (c.head + 1) % len(c.ring)
	}
	c.count -= n
	c.stats.Evictions += uint64(n)
	c.stats.Batches++
}

func (c *Cache) Len() int { return c.count }

func (c *Cache) Cap() int { return len(c.ring) }

func (c *Cache) Options() Options { return c.opts }

func (c *Cache) Stats() Stats { return c.stats }

// Reset drops every entry. Stats are kept.
func (c *Cache) Reset() {
	clear(c.values)
	c.head = 0
	c.count = 0
}
