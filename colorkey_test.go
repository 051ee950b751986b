package lemonade

import (
	"image"
	"image/color"
	"testing"
)

func TestApplyColorKey(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.Set(0, 0, ColorKey)
	src.Set(1, 0, color.RGBA{R: 0xff, G: 0x01, B: 0xff, A: 0xff})
	src.Set(2, 0, ColorYellow)

	dst := applyColorKey(src, ColorKey)
	if a := dst.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("magenta alpha = %d, want 0", a)
	}
	if c := dst.NRGBAAt(1, 0); c.A != 0xff || c.G != 0x01 {
		t.Errorf("near-magenta = %v, want untouched", c)
	}
	if c := dst.NRGBAAt(2, 0); c != (color.NRGBA{R: 0xff, G: 0xff, A: 0xff}) {
		t.Errorf("yellow = %v", c)
	}
	if src.RGBAAt(0, 0) != ColorKey {
		t.Error("source modified")
	}
}

func TestApplyColorKeyOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 12, 12))
	src.Set(11, 11, ColorKey)
	dst := applyColorKey(src, ColorKey)
	if dst.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if dst.NRGBAAt(1, 1).A != 0 {
		t.Error("keyed pixel kept alpha")
	}
}

func TestLoadTextureFromImageSize(t *testing.T) {
	g := newTestGraphics(t)
	tex := g.LoadTextureFromImage(image.NewRGBA(image.Rect(0, 0, 7, 3)))
	if w, h := g.TextureSize(tex); w != 7 || h != 3 {
		t.Errorf("TextureSize = %dx%d, want 7x3", w, h)
	}
}
