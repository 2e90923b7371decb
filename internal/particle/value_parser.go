package particle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCurve parses the compact text form of a curve.
//
// Supported formats:
//   - Fixed value: "1.5" → constant curve
//   - Keyframes: "0,1 0.5,2 1,0" → time,value pairs
//   - Interpolation keyword anywhere: "0,0 1,1 Smooth" (default Linear)
//
// Example:
//
//	curve, err := ParseCurve("0,0 0.2,1 1,0 Smooth")
func ParseCurve(s string) (Curve, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Curve{}, fmt.Errorf("empty curve")
	}

	var curve Curve
	for _, part := range strings.Fields(s) {
		switch strings.ToLower(part) {
		case "linear":
			curve.Mode = InterpLinear
			continue
		case "smooth":
			curve.Mode = InterpSmooth
			continue
		}

		if !strings.Contains(part, ",") {
			value, err := parseFinite(part)
			if err != nil {
				return Curve{}, fmt.Errorf("invalid curve value %q: %w", part, err)
			}
			// 单独的值仅作为初始值使用
			if len(curve.Points) > 0 {
				return Curve{}, fmt.Errorf("bare value %q must come first", part)
			}
			curve.Points = append(curve.Points, Keyframe{Time: 0, Value: value})
			continue
		}

		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			return Curve{}, fmt.Errorf("invalid keyframe %q", part)
		}
		tm, err := parseFinite(pair[0])
		if err != nil {
			return Curve{}, fmt.Errorf("invalid keyframe time %q: %w", part, err)
		}
		value, err := parseFinite(pair[1])
		if err != nil {
			return Curve{}, fmt.Errorf("invalid keyframe value %q: %w", part, err)
		}
		curve.Points = append(curve.Points, Keyframe{Time: tm, Value: value})
	}

	if len(curve.Points) == 0 {
		return Curve{}, fmt.Errorf("curve %q has no points", s)
	}
	return curve, nil
}

// String formats the curve in the compact text form accepted by ParseCurve.
func (c Curve) String() string {
	var b strings.Builder
	for i, p := range c.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(p.Time, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Value, 'g', -1, 64))
	}
	if c.Mode == InterpSmooth {
		b.WriteString(" Smooth")
	}
	return b.String()
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
