package noise

import "math"

// gradients are the 12 cube-edge directions, repeated to fill 16 slots.
var gradients = [16][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

// Perlin is improved Perlin noise over a seeded permutation.
type Perlin struct {
	perm [512]uint8
}

func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}

	var base [256]uint8
	for i := range base {
		base[i] = uint8(i)
	}

	// Fisher-Yates driven by a 64-bit LCG
	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}

	for i := 0; i < 512; i++ {
		p.perm[i] = base[i&255]
	}
	return p
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func (p *Perlin) corner(ix, iy, iz int, dx, dy, dz float64) float64 {
	h := p.perm[int(p.perm[int(p.perm[ix])+iy])+iz] & 15
	g := gradients[h]
	return g[0]*dx + g[1]*dy + g[2]*dz
}

// Eval3 returns noise at (x, y, z), roughly in [-1, 1].
func (p *Perlin) Eval3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(fx)&255, int(fy)&255, int(fz)&255
	xf, yf, zf := x-fx, y-fy, z-fz

	u, v, w := fade(xf), fade(yf), fade(zf)

	n000 := p.corner(xi, yi, zi, xf, yf, zf)
	n100 := p.corner(xi+1, yi, zi, xf-1, yf, zf)
	n010 := p.corner(xi, yi+1, zi, xf, yf-1, zf)
	n110 := p.corner(xi+1, yi+1, zi, xf-1, yf-1, zf)
	n001 := p.corner(xi, yi, zi+1, xf, yf, zf-1)
	n101 := p.corner(xi+1, yi, zi+1, xf-1, yf, zf-1)
	n011 := p.corner(xi, yi+1, zi+1, xf, yf-1, zf-1)
	n111 := p.corner(xi+1, yi+1, zi+1, xf-1, yf-1, zf-1)

	near := lerp(v, lerp(u, n000, n100), lerp(u, n010, n110))
	far := lerp(v, lerp(u, n001, n101), lerp(u, n011, n111))
	return lerp(w, near, far)
}
