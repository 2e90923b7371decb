package particle

import "math"

// spawnSampler returns a spawn offset relative to the emitter origin.
type spawnSampler func(cfg *EmitterConfig, rng *Rand) (float64, float64)

// samplerFor selects the sampling strategy for a shape and emission mode.
// Point and line emitters ignore the mode.
func samplerFor(shape Shape, mode EmissionMode) spawnSampler {
	switch shape {
	case ShapeLine:
		return sampleLine
	case ShapeCircle:
		if mode == EmitEdge {
			return sampleCircleEdge
		}
		return sampleCircleArea
	case ShapeRectangle:
		if mode == EmitEdge {
			return sampleRectEdge
		}
		return sampleRectArea
	case ShapeRoundedRect:
		if mode == EmitEdge {
			return sampleRoundedRectEdge
		}
		// 圆角矩形的区域发射按普通矩形处理，四角不剔除
		return sampleRectArea
	default:
		return samplePoint
	}
}

// SampleSpawnOffset draws a spawn position offset for cfg.
func SampleSpawnOffset(cfg EmitterConfig, rng *Rand) (float64, float64) {
	return samplerFor(cfg.Shape, cfg.Mode)(&cfg, rng)
}

func samplePoint(*EmitterConfig, *Rand) (float64, float64) {
	return 0, 0
}

func sampleLine(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	rad := cfg.Angle * math.Pi / 180
	d := (rng.Float64() - 0.5) * cfg.LineLength
	return math.Cos(rad) * d, math.Sin(rad) * d
}

// sampleCircleArea samples in polar coordinates with a uniform radius, which
// concentrates particles toward the center.
func sampleCircleArea(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	r := rng.Float64() * cfg.Radius
	theta := rng.Float64() * 2 * math.Pi
	return r * math.Cos(theta), r * math.Sin(theta)
}

func sampleCircleEdge(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	theta := rng.Float64() * 2 * math.Pi
	return cfg.Radius * math.Cos(theta), cfg.Radius * math.Sin(theta)
}

func sampleRectArea(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	return (rng.Float64() - 0.5) * cfg.Width, (rng.Float64() - 0.5) * cfg.Height
}

// sampleRectEdge walks the perimeter top, right, bottom, left.
func sampleRectEdge(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	w, h := math.Abs(cfg.Width), math.Abs(cfg.Height)
	hw, hh := w/2, h/2
	d := rng.Float64() * (2*w + 2*h)

	switch {
	case d < w:
		return -hw + d, -hh
	case d < w+h:
		return hw, -hh + (d - w)
	case d < 2*w+h:
		return hw - (d - w - h), hh
	default:
		return -hw, hh - (d - 2*w - h)
	}
}

// ClampCornerRadius limits r to half of the smaller rectangle side.
func ClampCornerRadius(r, w, h float64) float64 {
	limit := math.Min(math.Abs(w), math.Abs(h)) / 2
	return math.Max(0, math.Min(r, limit))
}

// sampleRoundedRectEdge walks the rounded outline clockwise starting with the
// top straight edge, alternating straight edges and quarter arcs.
func sampleRoundedRectEdge(cfg *EmitterConfig, rng *Rand) (float64, float64) {
	w, h := math.Abs(cfg.Width), math.Abs(cfg.Height)
	r := ClampCornerRadius(cfg.CornerRadius, w, h)
	hw, hh := w/2, h/2
	sw, sh := w-2*r, h-2*r
	arc := math.Pi * r / 2

	total := 2*sw + 2*sh + 4*arc
	if total <= 0 {
		return 0, 0
	}
	d := rng.Float64() * total

	type segment struct {
		length float64
		at     func(s float64) (float64, float64)
	}
	corner := func(cx, cy, start float64) func(float64) (float64, float64) {
		return func(s float64) (float64, float64) {
			theta := start + (s/arc)*(math.Pi/2)
			return cx + r*math.Cos(theta), cy + r*math.Sin(theta)
		}
	}
	segments := [8]segment{
		{sw, func(s float64) (float64, float64) { return -hw + r + s, -hh }},
		{arc, corner(hw-r, -hh+r, -math.Pi/2)},
		{sh, func(s float64) (float64, float64) { return hw, -hh + r + s }},
		{arc, corner(hw-r, hh-r, 0)},
		{sw, func(s float64) (float64, float64) { return hw - r - s, hh }},
		{arc, corner(-hw+r, hh-r, math.Pi/2)},
		{sh, func(s float64) (float64, float64) { return -hw, hh - r - s }},
		{arc, corner(-hw+r, -hh+r, math.Pi)},
	}

	for _, seg := range segments {
		if seg.length <= 0 {
			continue
		}
		if d < seg.length {
			return seg.at(d)
		}
		d -= seg.length
	}
	// Floating-point leftovers land on the end of the outline
	return -hw + r, -hh
}
