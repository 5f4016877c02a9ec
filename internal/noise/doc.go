// Package noise provides deterministic 3-D noise sources for the field renderer.
//
// A [Source] is treated as an opaque pure function of three coordinates. Two
// implementations are available:
//
//   - [Perlin]: improved Perlin gradient noise with a seeded permutation table
//   - OpenSimplex: adapter over github.com/ojrac/opensimplex-go
//
// Values are empirically close to [-1, 1] but callers must not rely on a bound.
package noise
