package atlas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/decker502/fxbake/internal/particle"
)

// previewBackground is the backdrop the preview is composited on
var previewBackground = color.NRGBA{R: 24, G: 24, B: 32, A: 255}

// RenderPreview draws one baked frame into a width×height bitmap with the
// emitter origin at the center. Each particle is the sprite tinted by its
// color and alpha, scaled and rotated by its transform.
func RenderPreview(frame particle.BakedFrame, sprite image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: previewBackground}, image.Point{}, draw.Src)

	sb := sprite.Bounds()
	tinted := image.NewNRGBA(sb)
	cx, cy := float64(width)/2, float64(height)/2

	for _, p := range frame.Particles {
		if p.Alpha <= 0 || math.Abs(p.ScaleX) < 1e-6 || math.Abs(p.ScaleY) < 1e-6 {
			continue
		}
		tint(tinted, sprite, p.Color, p.Alpha)

		// Sprite center → particle position, with rotation and per-axis scale
		rad := p.Rotation * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		hw, hh := float64(sb.Dx())/2, float64(sb.Dy())/2
		tx, ty := cx+p.X, cy+p.Y
		m := f64.Aff3{
			cos * p.ScaleX, -sin * p.ScaleY, 0,
			sin * p.ScaleX, cos * p.ScaleY, 0,
		}
		m[2] = tx - (m[0]*(hw+float64(sb.Min.X)) + m[1]*(hh+float64(sb.Min.Y)))
		m[5] = ty - (m[3]*(hw+float64(sb.Min.X)) + m[4]*(hh+float64(sb.Min.Y)))

		draw.BiLinear.Transform(dst, m, tinted, sb, draw.Over, nil)
	}
	return dst
}

// tint writes sprite multiplied by c and alpha into dst.
func tint(dst *image.NRGBA, sprite image.Image, c particle.Color, alpha float64) {
	b := sprite.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src := color.NRGBAModel.Convert(sprite.At(x, y)).(color.NRGBA)
			dst.SetNRGBA(x, y, color.NRGBA{
				R: scaleChannel(src.R, c.R),
				G: scaleChannel(src.G, c.G),
				B: scaleChannel(src.B, c.B),
				A: scaleChannel(src.A, alpha),
			})
		}
	}
}

func scaleChannel(v uint8, f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return v
	}
	return uint8(float64(v)*f + 0.5)
}
