package lemonade

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Engine bundles the subsystems every scene needs. It implements ebiten.Game:
// Update advances the fixed-step loop, Draw renders the active sprites.
type Engine struct {
	Config   *Config
	Log      *zap.Logger
	Graphics *Graphics
	Input    *Input
	Widgets  *Widgets
	Director *Director
	Loop     *Loop

	// SelectedLevel is the level name picked in the level selector.
	SelectedLevel string

	now    func() time.Time
	last   time.Time
	quit   bool
	script *Script

	screenshotQueue []string
}

// NewEngine creates the subsystems from cfg. src supplies input; nil reads
// Ebitengine.
func NewEngine(cfg *Config, log *zap.Logger, src InputSource) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	font, err := LoadFontFile(cfg.Assets.Path(cfg.Assets.Font), cfg.Assets.FontSize)
	if err != nil {
		log.Warn("font unavailable, using built-in", zap.Error(err))
		if font, err = DefaultFont(cfg.Assets.FontSize); err != nil {
			return nil, err
		}
	}

	g := NewGraphics(GraphicsConfig{
		MaxTextures:  cfg.Limits.MaxTextures,
		MaxSprites:   cfg.Limits.MaxSprites,
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Font:         font,
		Logger:       log.Named("graphics"),
	})
	g.SetDebug(cfg.Debug.Enabled)

	return &Engine{
		Config:   cfg,
		Log:      log,
		Graphics: g,
		Input:    NewInput(src),
		Widgets:  NewWidgets(g, cfg.Limits.MaxWidgets),
		Director: NewDirector(log.Named("director")),
		Loop:     NewLoop(cfg.Loop.Step, cfg.Loop.MaxCatchUp),
		now:      time.Now,
	}, nil
}

// Quit makes the loop stop after the current step.
func (e *Engine) Quit() {
	e.quit = true
}

// SetScript replays r's input from the next step on. Nil detaches it.
func (e *Engine) SetScript(r *Script) {
	e.script = r
}

// StepSeconds returns the logic step length in seconds.
func (e *Engine) StepSeconds() float32 {
	return e.Loop.Seconds()
}

// Update implements ebiten.Game. It returns ebiten.Termination once a step
// asks to quit.
func (e *Engine) Update() error {
	now := e.now()
	elapsed := e.Loop.Step
	if !e.last.IsZero() {
		elapsed = now.Sub(e.last)
	}
	e.last = now

	var stepErr error
	_, running := e.Loop.Advance(elapsed, func() bool {
		ok, err := e.Step()
		if err != nil {
			stepErr = err
			return false
		}
		return ok
	})
	if stepErr != nil {
		return stepErr
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

// Step runs one logic step: poll input, handle global keys, advance the
// camera and the current scene. It returns false when the game should stop.
func (e *Engine) Step() (bool, error) {
	if e.script != nil {
		e.script.step(e)
	}
	e.Input.Poll()
	if e.quit || e.Input.CloseRequested() {
		return false, nil
	}
	if e.Input.KeyReleased(ebiten.KeyF12) {
		e.Screenshot("f12")
	}
	if e.Input.KeyReleased(ebiten.KeyF3) {
		e.Graphics.SetDebug(!e.Graphics.Debug())
	}
	e.Graphics.Camera().Update(e.StepSeconds())

	running, err := e.Director.Update(e)
	if err != nil {
		return false, err
	}
	return running && !e.quit, nil
}

// Draw implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	e.Graphics.Render(screen)
	e.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The logical screen follows the window.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := e.Graphics.ScreenSize(); w != outsideWidth || h != outsideHeight {
		e.Graphics.SetScreenSize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window, enters first and blocks until the game quits.
func Run(e *Engine, first SceneID) error {
	wc := e.Config.Window
	ebiten.SetWindowTitle(wc.Title)
	ebiten.SetWindowSize(wc.Width, wc.Height)
	if wc.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowClosingHandled(true)

	if err := e.Director.Start(e, first); err != nil {
		return err
	}
	defer e.Graphics.Clear()

	e.Log.Info("running", zap.String("title", wc.Title),
		zap.Int("width", wc.Width), zap.Int("height", wc.Height),
		zap.Duration("step", e.Loop.Step))
	if err := ebiten.RunGame(e); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
