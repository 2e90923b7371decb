package particle

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var shapeNames = []string{"point", "line", "circle", "rectangle", "roundedRect"}

var modeNames = []string{"area", "edge"}

var typeNames = []string{"continuous", "burst", "duration"}

var interpolationNames = []string{"linear", "smooth"}

func parseEnum(kind string, names []string, text []byte) (int, error) {
	s := strings.TrimSpace(string(text))
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (expected one of %s)", kind, s, strings.Join(names, ", "))
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("invalid(%d)", v)
	}
	return names[v]
}

func (s Shape) String() string { return enumName(shapeNames, int(s)) }

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(text []byte) error {
	v, err := parseEnum("shape", shapeNames, text)
	*s = Shape(v)
	return err
}

func (m EmissionMode) String() string { return enumName(modeNames, int(m)) }

func (m EmissionMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *EmissionMode) UnmarshalText(text []byte) error {
	v, err := parseEnum("emission mode", modeNames, text)
	*m = EmissionMode(v)
	return err
}

func (e EmissionType) String() string { return enumName(typeNames, int(e)) }

func (e EmissionType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EmissionType) UnmarshalText(text []byte) error {
	v, err := parseEnum("emission type", typeNames, text)
	*e = EmissionType(v)
	return err
}

func (i Interpolation) String() string { return enumName(interpolationNames, int(i)) }

func (i Interpolation) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Interpolation) UnmarshalText(text []byte) error {
	v, err := parseEnum("interpolation", interpolationNames, text)
	*i = Interpolation(v)
	return err
}

// MarshalText formats the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))), nil
}

// UnmarshalText parses "#rrggbb" (the leading '#' is optional).
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "#")
	if len(s) != 6 {
		return fmt.Errorf("invalid color %q: expected #rrggbb", string(text))
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", string(text), err)
	}
	*c = Color{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
	}
	return nil
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// curveNode is the long YAML form of a curve:
//
//	mode: smooth
//	points:
//	  - {time: 0, value: 1}
//	  - {time: 1, value: 0}
type curveNode struct {
	Mode   Interpolation `yaml:"mode"`
	Points []Keyframe    `yaml:"points"`
}

// UnmarshalYAML accepts either the compact string form ("0,1 1,0 Smooth"),
// a bare number, or the long mapping form.
func (c *Curve) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		curve, err := ParseCurve(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = curve
		return nil
	case yaml.MappingNode:
		var n curveNode
		if err := node.Decode(&n); err != nil {
			return err
		}
		*c = Curve{Points: n.Points, Mode: n.Mode}
		return nil
	default:
		return fmt.Errorf("line %d: curve must be a string or a mapping", node.Line)
	}
}

// MarshalYAML writes the compact string form.
func (c Curve) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
