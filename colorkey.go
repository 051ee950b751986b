package lemonade

import (
	"image"
	"image/color"
	"image/draw"
)

// ColorKey is the colour treated as fully transparent when images are
// loaded (magenta, 0xFF00FF).
var ColorKey = color.RGBA{R: 0xff, B: 0xff, A: 0xff}

// applyColorKey converts src to NRGBA and clears every pixel matching key.
// Only the RGB channels are compared. The source image is not modified.
func applyColorKey(src image.Image, key color.RGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	for y := 0; y < dst.Rect.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			if row[i] == key.R && row[i+1] == key.G && row[i+2] == key.B && row[i+3] != 0 {
				row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
			}
		}
	}
	return dst
}
