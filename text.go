package lemonade

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// Font wraps Ebitengine's text/v2 for TrueType font rendering at one fixed
// size. Text textures are rasterised once at their natural size.
type Font struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
}

// LoadFont parses raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("lemonade: failed to parse TTF data: %w", err)
	}

	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &Font{
		face:   face,
		source: source,
		size:   size,
		lh:     lh,
	}, nil
}

// LoadFontFile reads a font from disk.
func LoadFontFile(path string, size float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lemonade: load font %s: %w", path, err)
	}
	return LoadFont(data, size)
}

// DefaultFont returns the embedded Go Mono font at the given size.
func DefaultFont(size float64) (*Font, error) {
	return LoadFont(gomono.TTF, size)
}

// Size returns the point size the font was loaded at.
func (f *Font) Size() float64 {
	return f.size
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 {
	return f.lh
}

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// rasterize renders s into a new image sized to fit it exactly. Empty strings
// produce a 1x1 transparent image so the texture stays drawable.
func (f *Font) rasterize(s string, c color.Color) *ebiten.Image {
	w, h := f.MeasureString(s)
	iw := max(int(math.Ceil(w)), 1)
	ih := max(int(math.Ceil(h)), 1)

	img := ebiten.NewImage(iw, ih)
	if s == "" {
		return img
	}
	op := &text.DrawOptions{}
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = f.lh
	text.Draw(img, s, f.face, op)
	return img
}
