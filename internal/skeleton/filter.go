package skeleton

import (
	"math"
	"sort"
)

// medianFilter3 smooths values with a sliding median over a window of three.
// The window is clamped at both ends, so the first and last samples are the
// median of themselves and their only neighbor.
func medianFilter3(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		window := []float64{values[lo], values[i], values[hi]}
		sort.Float64s(window)
		out[i] = window[1]
	}
	return out
}

// unwrapAngle shifts angle by whole turns until it is within ±180° of ref.
func unwrapAngle(angle, ref float64) float64 {
	if d := angle - ref; d > 180 || d < -180 {
		angle -= 360 * math.Round(d/360)
	}
	return angle
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // avoid "-0" in the output
	}
	return r
}

func roundTime(t float64) float64  { return round(t, 3) }
func roundPos(v float64) float64   { return round(v, 2) }
func roundAngle(v float64) float64 { return round(v, 2) }
func roundScale(v float64) float64 { return round(v, 3) }
