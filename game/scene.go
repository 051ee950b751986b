package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/lemonade"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

const (
	panSpeed   = 4.0  // world pixels per step at zoom 1
	zoomStep   = 1.01 // per step while a zoom key is held
	wheelZoom  = 1.1  // per wheel notch
	centreTime = 0.5  // seconds
)

// Scene plays the level chosen in the level selector.
type Scene struct {
	levels []*Level
	log    *zap.Logger
	sim    *Simulation
}

// NewScene creates the game scene over the loaded levels.
func NewScene(levels []*Level, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{levels: levels, log: log}
}

// Simulation returns the running level, or nil outside the scene.
func (s *Scene) Simulation() *Simulation {
	return s.sim
}

func (s *Scene) Enter(e *lemonade.Engine, _ lemonade.SceneID) error {
	if len(s.levels) == 0 {
		return fmt.Errorf("no levels loaded")
	}
	level := Find(s.levels, e.SelectedLevel)
	if level == nil {
		s.log.Warn("unknown level, playing the first",
			zap.String("selected", e.SelectedLevel), zap.String("level", s.levels[0].Name))
		level = s.levels[0]
	}

	g := e.Graphics
	g.ClearSprites()
	g.Camera().Reset()

	sim, err := NewSimulation(g, level, s.log.Named("sim"))
	if err != nil {
		return err
	}
	s.sim = sim
	g.Camera().CenterOnContent()
	return nil
}

func (s *Scene) Update(e *lemonade.Engine) (lemonade.SceneID, error) {
	in, cam := e.Input, e.Graphics.Camera()
	if in.KeyReleased(ebiten.KeyEscape) {
		return lemonade.SceneMainMenu, nil
	}

	speed := panSpeed / cam.Zoom()
	var dx, dy float64
	if in.KeyDown(ebiten.KeyArrowLeft) {
		dx -= speed
	}
	if in.KeyDown(ebiten.KeyArrowRight) {
		dx += speed
	}
	if in.KeyDown(ebiten.KeyArrowUp) {
		dy -= speed
	}
	if in.KeyDown(ebiten.KeyArrowDown) {
		dy += speed
	}
	if dx != 0 || dy != 0 {
		cam.Pan(dx, dy)
	}

	switch {
	case in.KeyDown(ebiten.KeyEqual), in.KeyDown(ebiten.KeyNumpadAdd):
		cam.ZoomBy(zoomStep)
	case in.KeyDown(ebiten.KeyMinus), in.KeyDown(ebiten.KeyNumpadSubtract):
		cam.ZoomBy(1 / zoomStep)
	}
	if _, wy := in.Wheel(); wy != 0 {
		mx, my := in.MousePosition()
		f := wheelZoom
		if wy < 0 {
			f = 1 / wheelZoom
		}
		cam.ZoomAt(f, float64(mx), float64(my))
	}
	if in.KeyReleased(ebiten.KeyC) {
		cx, cy := cam.Bounds().Center()
		cam.ScrollTo(cx, cy, centreTime, ease.OutQuad)
	}

	s.sim.Update(e.Loop.Step)
	return lemonade.SceneNone, nil
}

func (s *Scene) Exit(e *lemonade.Engine, next lemonade.SceneID) {
	if s.sim != nil {
		sales, revenue := s.sim.Sales()
		s.log.Info("level left", zap.Stringer("next", next),
			zap.Int("sales", sales), zap.Int("revenue", revenue))
		s.sim.Close()
		s.sim = nil
	}
	e.Graphics.ClearSprites()
	e.Graphics.Camera().Reset()
}
