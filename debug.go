package lemonade

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// debugStats holds per-frame render metrics.
// Only populated when Graphics.debug is true.
type debugStats struct {
	renderTime time.Duration
	drawCount  int
	frames     int
}

// debugLogEvery is the number of frames between debug log lines.
const debugLogEvery = 120

// SetDebug enables the on-screen stats overlay and periodic stats logging.
func (g *Graphics) SetDebug(enabled bool) {
	g.debug = enabled
}

// Debug reports whether debug mode is on.
func (g *Graphics) Debug() bool {
	return g.debug
}

func (g *Graphics) debugText() string {
	zoom := g.camera.Zoom()
	cx, cy := g.camera.Position()
	return fmt.Sprintf("FPS: %.1f TPS: %.1f\nsprites: %d/%d active, %d drawn\ntextures: %d\ncamera: (%.0f, %.0f) x%.2f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.active, g.sprites.Len(), g.stats.drawCount,
		g.textures.Len(),
		cx, cy, zoom)
}

// drawDebugOverlay prints the stats on top of the frame and logs them every
// debugLogEvery frames.
func (g *Graphics) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, g.debugText())

	g.stats.frames++
	if g.stats.frames%debugLogEvery != 0 {
		return
	}
	g.log.Debug("frame stats",
		zap.Duration("render", g.stats.renderTime),
		zap.Int("drawn", g.stats.drawCount),
		zap.Int("active", g.active),
		zap.Int("sprites", g.sprites.Len()),
		zap.Int("textures", g.textures.Len()))
}
