package noise

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ojrac/opensimplex-go"
)

var ErrUnknownSource = errors.New("noise: unknown source")

// Source evaluates noise at a point in 3-D space.
type Source interface {
	Eval3(x, y, z float64) float64
}

// Func adapts a plain function to Source.
type Func func(x, y, z float64) float64

func (f Func) Eval3(x, y, z float64) float64 { return f(x, y, z) }

type simplex struct {
	n opensimplex.Noise
}

// NewOpenSimplex returns an OpenSimplex source for the given seed.
func NewOpenSimplex(seed int64) Source {
	return simplex{n: opensimplex.New(seed)}
}

func (s simplex) Eval3(x, y, z float64) float64 { return s.n.Eval3(x, y, z) }

var constructors = map[string]func(seed int64) Source{
	"perlin":      func(seed int64) Source { return NewPerlin(seed) },
	"opensimplex": NewOpenSimplex,
}

// FromName builds the named source.
func FromName(name string, seed int64) (Source, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSource, name, Names())
	}
	return ctor(seed), nil
}

// Names lists the registered source names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
