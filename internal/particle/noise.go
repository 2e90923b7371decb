package particle

import "math"

// Noise2D samples a smooth pseudo-random unit vector field.
//
// The field is a value noise over a 3-D lattice (x, y, z), where z is usually
// time. Lattice values come from an integer hash, so the result depends only
// on the inputs.
func Noise2D(x, y, z float64) (float64, float64) {
	angle := valueNoise(x, y, z) * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// valueNoise returns a trilinearly blended lattice value in [0, 1).
func valueNoise(x, y, z float64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	c000 := latticeValue(ix, iy, iz)
	c100 := latticeValue(ix+1, iy, iz)
	c010 := latticeValue(ix, iy+1, iz)
	c110 := latticeValue(ix+1, iy+1, iz)
	c001 := latticeValue(ix, iy, iz+1)
	c101 := latticeValue(ix+1, iy, iz+1)
	c011 := latticeValue(ix, iy+1, iz+1)
	c111 := latticeValue(ix+1, iy+1, iz+1)

	near := lerp(lerp(c000, c100, fx), lerp(c010, c110, fx), fy)
	far := lerp(lerp(c001, c101, fx), lerp(c011, c111, fx), fy)
	return lerp(near, far, fz)
}

func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

// latticeValue hashes integer coordinates to [0, 1).
func latticeValue(x, y, z int64) float64 {
	h := uint64(x)*0x8da6b343 ^ uint64(y)*0xd8163841 ^ uint64(z)*0xcb1ab31f
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}
