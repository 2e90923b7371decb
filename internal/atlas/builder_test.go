package atlas

import (
	"image"
	"testing"

	"github.com/decker502/fxbake/internal/particle"
)

func TestBuild_RegionInsidePage(t *testing.T) {
	a := Build()
	bounds := a.Image.Bounds()
	if bounds.Dx() != AtlasSize || bounds.Dy() != AtlasSize {
		t.Fatalf("page size = %v, want %dx%d", bounds, AtlasSize, AtlasSize)
	}
	if len(a.Regions) != 1 {
		t.Fatalf("regions = %v, want one", a.Regions)
	}
	r := a.Regions[0]
	rect := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	if !rect.In(bounds) {
		t.Errorf("region %v outside page %v", rect, bounds)
	}
	if r.X != 0 || r.Y != 0 || r.Name != RegionName || r.Index != -1 {
		t.Errorf("region = %+v", r)
	}
}

func TestSprite_RadialFalloff(t *testing.T) {
	s := Sprite()
	center := s.NRGBAAt(SpriteSize/2, SpriteSize/2)
	if center.A != 255 || center.R != 255 {
		t.Errorf("center pixel = %v, want opaque white", center)
	}
	if corner := s.NRGBAAt(0, 0); corner.A != 0 {
		t.Errorf("corner alpha = %d, want 0", corner.A)
	}
	// Alpha decreases from the center outward along a row
	prev := uint8(255)
	for x := SpriteSize / 2; x < SpriteSize; x++ {
		a := s.NRGBAAt(x, SpriteSize/2).A
		if a > prev {
			t.Fatalf("alpha rises at x=%d: %d > %d", x, a, prev)
		}
		prev = a
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, b := Build(), Build()
	for i := range a.Image.Pix {
		if a.Image.Pix[i] != b.Image.Pix[i] {
			t.Fatalf("pixel byte %d differs between builds", i)
		}
	}
	// Sprite occupies the top-left corner only
	if px := a.Image.NRGBAAt(SpriteSize+10, SpriteSize+10); px.A != 0 {
		t.Errorf("pixel outside the sprite = %v, want transparent", px)
	}
}

func TestDescriptor(t *testing.T) {
	got := Build().Descriptor("effect.png")
	want := "\neffect.png\n" +
		"size: 128,128\n" +
		"format: RGBA8888\n" +
		"filter: Linear,Linear\n" +
		"repeat: none\n" +
		"particle\n" +
		"  rotate: false\n" +
		"  xy: 0, 0\n" +
		"  size: 64, 64\n" +
		"  orig: 64, 64\n" +
		"  offset: 0, 0\n" +
		"  index: -1\n"
	if got != want {
		t.Errorf("Descriptor() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderPreview(t *testing.T) {
	sprite := Sprite()

	empty := RenderPreview(particle.BakedFrame{}, sprite, 100, 80)
	if b := empty.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("preview size = %v", b)
	}
	if px := empty.NRGBAAt(50, 40); px != previewBackground {
		t.Errorf("empty preview pixel = %v, want background", px)
	}

	frame := particle.BakedFrame{Particles: []particle.Snapshot{
		{ID: 0, Scale: 1, ScaleX: 1, ScaleY: 1, Alpha: 1, Color: particle.White},
		{ID: 1, X: 30, Scale: 0, ScaleX: 0, ScaleY: 0, Alpha: 1, Color: particle.White},
	}}
	img := RenderPreview(frame, sprite, 100, 80)
	if px := img.NRGBAAt(50, 40); px.R < 200 {
		t.Errorf("center pixel = %v, want close to white", px)
	}
	if px := img.NRGBAAt(5, 5); px != previewBackground {
		t.Errorf("corner pixel = %v, want background", px)
	}
}
