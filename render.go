package lemonade

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Render clears screen with ClearColor and draws every active sprite in slot
// order. Later slots are drawn on top. Sprites with an empty source region or
// destination are skipped.
func (g *Graphics) Render(screen *ebiten.Image) {
	var start time.Time
	if g.debug {
		start = time.Now()
	}

	screen.Fill(g.ClearColor)

	var op ebiten.DrawImageOptions
	drawn := 0
	for i := 0; i < g.active; i++ {
		s := g.sprites.At(i)
		sw, sh := s.src.Dx(), s.src.Dy()
		if sw <= 0 || sh <= 0 || s.device.Width <= 0 || s.device.Height <= 0 {
			continue
		}
		t, err := g.textures.Get(s.texture)
		if err != nil {
			continue
		}

		op.GeoM.Reset()
		op.GeoM.Scale(s.device.Width/float64(sw), s.device.Height/float64(sh))
		op.GeoM.Translate(s.device.X, s.device.Y)
		screen.DrawImage(t.img.SubImage(s.src).(*ebiten.Image), &op)
		drawn++
	}

	if g.debug {
		g.stats.drawCount = drawn
		g.stats.renderTime = time.Since(start)
		g.drawDebugOverlay(screen)
	}
}
