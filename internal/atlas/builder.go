// Package atlas builds the single-sprite texture atlas shared by every
// exported particle, its text descriptor, and the preview bitmap of a bake.
package atlas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/decker502/fxbake/pkg/utils"
)

const (
	// SpriteSize is the width and height of the particle sprite in pixels
	SpriteSize = 64
	// AtlasSize is the width and height of the atlas bitmap in pixels
	AtlasSize = 128
	// RegionName is the name of the particle region
	RegionName = "particle"
)

// Region describes one rectangle of an atlas page.
type Region struct {
	Name   string
	X, Y   int
	Width  int
	Height int
	// Index is -1 for regions that are not part of an indexed sequence
	Index int
}

// Atlas is one atlas page and its regions.
type Atlas struct {
	Image   *image.NRGBA
	Regions []Region
}

// Build renders the particle sprite into the top-left corner of an atlas page.
// The result does not depend on any particle settings.
func Build() *Atlas {
	page := image.NewNRGBA(image.Rect(0, 0, AtlasSize, AtlasSize))
	sprite := Sprite()
	for y := 0; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			page.SetNRGBA(x, y, sprite.NRGBAAt(x, y))
		}
	}
	return &Atlas{
		Image: page,
		Regions: []Region{{
			Name:   RegionName,
			Width:  SpriteSize,
			Height: SpriteSize,
			Index:  -1,
		}},
	}
}

// Sprite renders the soft round particle: white, opaque at the center and
// fading to transparent at the rim.
func Sprite() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	c := float64(SpriteSize) / 2
	for y := 0; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := 1 - utils.EaseInQuad(utils.Clamp(d, 0, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a*255 + 0.5)})
		}
	}
	return img
}

// Descriptor writes the line-oriented atlas text for a page stored as imageName.
func (a *Atlas) Descriptor(imageName string) string {
	var b strings.Builder
	bounds := a.Image.Bounds()

	b.WriteString("\n")
	b.WriteString(imageName + "\n")
	fmt.Fprintf(&b, "size: %d,%d\n", bounds.Dx(), bounds.Dy())
	b.WriteString("format: RGBA8888\n")
	b.WriteString("filter: Linear,Linear\n")
	b.WriteString("repeat: none\n")
	for _, r := range a.Regions {
		b.WriteString(r.Name + "\n")
		b.WriteString("  rotate: false\n")
		fmt.Fprintf(&b, "  xy: %d, %d\n", r.X, r.Y)
		fmt.Fprintf(&b, "  size: %d, %d\n", r.Width, r.Height)
		fmt.Fprintf(&b, "  orig: %d, %d\n", r.Width, r.Height)
		b.WriteString("  offset: 0, 0\n")
		fmt.Fprintf(&b, "  index: %d\n", r.Index)
	}
	return b.String()
}
