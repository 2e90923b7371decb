package particle

import (
	"sort"

	"github.com/decker502/fxbake/pkg/utils"
)

// Interpolation is the blending mode between two curve points.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpSmooth
)

// Keyframe represents a single control point of a curve.
type Keyframe struct {
	Time  float64 `yaml:"time"`  // Normalized time (0-1)
	Value float64 `yaml:"value"` // Value at this keyframe
}

// Curve is a sparse 1-D control-point curve over normalized time.
// Points may be stored in any order; they are sorted by time before evaluation.
type Curve struct {
	Points []Keyframe
	Mode   Interpolation
}

// ConstantCurve returns a single-point curve that evaluates to v everywhere.
func ConstantCurve(v float64) Curve {
	return Curve{Points: []Keyframe{{Time: 0, Value: v}}}
}

// LinearCurve returns a two-point linear curve going from start at t=0 to end at t=1.
func LinearCurve(start, end float64) Curve {
	return Curve{Points: []Keyframe{{Time: 0, Value: start}, {Time: 1, Value: end}}}
}

// Sorted returns the curve's points ordered by time.
// The receiver's slice is returned as is when it is already ordered.
func (c Curve) Sorted() []Keyframe {
	less := func(i, j int) bool { return c.Points[i].Time < c.Points[j].Time }
	if sort.SliceIsSorted(c.Points, less) {
		return c.Points
	}
	points := make([]Keyframe, len(c.Points))
	copy(points, c.Points)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points
}

// Evaluate returns the curve value at normalized time t.
func (c Curve) Evaluate(t float64) float64 {
	return EvaluateKeyframes(c.Sorted(), t, c.Mode)
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1).
//
// keyframes must be sorted by Time. t is clamped to [0, 1]. Before the first
// point the first value is held and past the last point the last value is held;
// there is no extrapolation.
func EvaluateKeyframes(keyframes []Keyframe, t float64, mode Interpolation) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}

	t = utils.Clamp(t, 0, 1)

	last := keyframes[len(keyframes)-1]
	if t >= last.Time {
		return last.Value
	}
	if t < keyframes[0].Time {
		return keyframes[0].Value
	}

	// Last segment whose start time is <= t
	i := 0
	for j := 0; j < len(keyframes)-1; j++ {
		if keyframes[j].Time <= t {
			i = j
		} else {
			break
		}
	}

	k0, k1 := keyframes[i], keyframes[i+1]
	duration := k1.Time - k0.Time
	if duration <= 0 {
		return k1.Value
	}
	localT := (t - k0.Time) / duration

	if mode == InterpSmooth {
		localT = utils.EaseInOutQuad(localT)
	}
	return k0.Value + (k1.Value-k0.Value)*localT
}
