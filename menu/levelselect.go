package menu

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/lemonade"
	"go.uber.org/zap"
)

const (
	levelColumns = 4
	levelRows    = 2
	maxLevels    = levelColumns * levelRows
)

// levelButton is one thumbnail in the selector grid.
type levelButton struct {
	name    string
	widget  lemonade.ID
	caption lemonade.ID
}

// LevelSelector is the overlay opened by "New": a panel over the title
// screen listing the levels, with OK and Back buttons.
type LevelSelector struct {
	main   *MainMenu
	assets *Assets
	levels []string
	log    *zap.Logger

	frame   lemonade.ID // widget tracking the backdrop
	panel   lemonade.ID
	ok      lemonade.ID
	back    lemonade.ID
	buttons []levelButton

	selected  int
	selBorder border
	hover     border
	hovered   lemonade.ID // ok, back or NoID
}

// NewLevelSelector creates the selector scene. Only the first 8 level
// names are shown.
func NewLevelSelector(main *MainMenu, levels []string, log *zap.Logger) *LevelSelector {
	if log == nil {
		log = zap.NewNop()
	}
	if len(levels) > maxLevels {
		levels = levels[:maxLevels]
	}
	return &LevelSelector{main: main, assets: main.assets, levels: levels, log: log}
}

// Selected returns the index of the highlighted level.
func (s *LevelSelector) Selected() int {
	return s.selected
}

// OKButton and BackButton return the button widgets.
func (s *LevelSelector) OKButton() lemonade.ID   { return s.ok }
func (s *LevelSelector) BackButton() lemonade.ID { return s.back }

// LevelButton returns the widget of the i-th level thumbnail.
func (s *LevelSelector) LevelButton(i int) lemonade.ID { return s.buttons[i].widget }

// Panel returns the overlay panel widget.
func (s *LevelSelector) Panel() lemonade.ID { return s.panel }

func (s *LevelSelector) Enter(e *lemonade.Engine, prev lemonade.SceneID) error {
	if !s.built(e) {
		if err := s.build(e); err != nil {
			return fmt.Errorf("build level selector: %w", err)
		}
	}
	e.Widgets.Show(s.frame)
	s.layout(e)
	s.selBorder.show(e.Graphics)
	return nil
}

func (s *LevelSelector) built(e *lemonade.Engine) bool {
	return s.frame != lemonade.NoID && e.Widgets.Has(s.frame) && e.Graphics.HasSprite(s.selBorder[0])
}

func (s *LevelSelector) build(e *lemonade.Engine) error {
	g, ws := e.Graphics, e.Widgets
	ws.Clear()
	s.buttons = s.buttons[:0]
	s.selected = 0
	s.hovered = lemonade.NoID

	s.frame = ws.Create(lemonade.NoID)
	ws.Hide(s.frame)

	s.panel = ws.Create(s.frame)
	ws.SetBox(s.panel, 10, 10, 80, 80, lemonade.PercentAll)
	if err := ws.SetBackground(s.panel, lemonade.ColorLight); err != nil {
		return err
	}

	// Outline and top bar.
	edges := []struct {
		x, y, w, h float64
		units      lemonade.Units
		ha         lemonade.HAlign
		va         lemonade.VAlign
	}{
		{0, 0, borderWidth, 100, lemonade.PercentHeight, lemonade.AlignLeft, lemonade.AlignTop},
		{0, 0, 100, borderWidth, lemonade.PercentWidth, lemonade.AlignLeft, lemonade.AlignBottom},
		{0, 0, borderWidth, 100, lemonade.PercentHeight, lemonade.AlignRight, lemonade.AlignTop},
		{0, 0, 100, 10, lemonade.PercentWidth, lemonade.AlignLeft, lemonade.AlignTop},
	}
	for _, ed := range edges {
		w := ws.Create(s.panel)
		ws.SetBox(w, ed.x, ed.y, ed.w, ed.h, ed.units)
		ws.SetAlign(w, ed.ha, ed.va)
		if err := ws.SetBackground(w, lemonade.ColorGreen); err != nil {
			return err
		}
	}

	title := ws.Create(s.panel)
	ws.SetBox(title, 0, 20, 100, 40, lemonade.PercentWidth)
	text, err := g.CreateInactiveText("Select Level", greenTextColor)
	if err != nil {
		return err
	}
	ws.Attach(title, text, lemonade.FitCenter)

	for i, name := range s.levels {
		col, row := i%levelColumns, i/levelColumns
		w := ws.Create(s.panel)
		ws.SetBox(w, 5+float64(col)*23.5, 15+float64(row)*38, 20, 25, lemonade.PercentAll)
		thumb, err := g.CreateInactiveSprite(s.assets.Background)
		if err != nil {
			return err
		}
		ws.Attach(w, thumb, lemonade.FitAspect)

		caption := ws.Create(w)
		ws.SetBox(caption, 0, -28, 100, 24, lemonade.PercentWidth)
		ws.SetAlign(caption, lemonade.AlignLeft, lemonade.AlignBottom)
		label, err := g.CreateInactiveText(name, greenTextColor)
		if err != nil {
			return err
		}
		ws.Attach(caption, label, lemonade.FitCenter)
		s.buttons = append(s.buttons, levelButton{name: name, widget: w, caption: caption})
	}

	if s.ok, err = s.button(g, ws, s.assets.OK, 40); err != nil {
		return err
	}
	if s.back, err = s.button(g, ws, s.assets.Back, 5); err != nil {
		return err
	}

	if s.selBorder, err = newBorder(g, s.assets.Green); err != nil {
		return err
	}
	if s.hover, err = newBorder(g, s.assets.Green); err != nil {
		return err
	}
	return nil
}

// button creates a 40x25 widget anchored to the panel's bottom-right corner,
// right pixels from the edge.
func (s *LevelSelector) button(g *lemonade.Graphics, ws *lemonade.Widgets, tex lemonade.ID, right float64) (lemonade.ID, error) {
	w := ws.Create(s.panel)
	ws.SetBox(w, right, 5, 40, 25, lemonade.Pixels)
	ws.SetAlign(w, lemonade.AlignRight, lemonade.AlignBottom)
	sprite, err := g.CreateInactiveSprite(tex)
	if err != nil {
		return lemonade.NoID, err
	}
	ws.Attach(w, sprite, lemonade.FitStretch)
	return w, nil
}

func (s *LevelSelector) Update(e *lemonade.Engine) (lemonade.SceneID, error) {
	in := e.Input
	s.layout(e)

	okRect := e.Widgets.Dest(s.ok)
	backRect := e.Widgets.Dest(s.back)

	switch {
	case in.KeyReleased(ebiten.KeyEscape):
		return lemonade.SceneMainMenu, nil
	case in.ZoneClicked(okRect, lemonade.MouseButtonLeft) || in.KeyReleased(ebiten.KeyEnter):
		if len(s.buttons) == 0 {
			s.log.Warn("no levels to start")
			return lemonade.SceneNone, nil
		}
		e.SelectedLevel = s.buttons[s.selected].name
		return lemonade.SceneGame, nil
	case in.ZoneClicked(backRect, lemonade.MouseButtonLeft):
		return lemonade.SceneMainMenu, nil
	}

	s.handleSelection(e)
	s.handleHover(e, okRect, backRect)
	return lemonade.SceneNone, nil
}

func (s *LevelSelector) handleSelection(e *lemonade.Engine) {
	in := e.Input
	n := len(s.buttons)
	if n == 0 {
		return
	}
	prev := s.selected
	switch {
	case in.KeyPressed(ebiten.KeyArrowRight):
		s.selected = (s.selected + 1) % n
	case in.KeyPressed(ebiten.KeyArrowLeft):
		s.selected = (s.selected + n - 1) % n
	default:
		for i, b := range s.buttons {
			if in.ZoneClicked(e.Widgets.Dest(b.widget), lemonade.MouseButtonLeft) {
				s.selected = i
				break
			}
		}
	}
	if s.selected != prev {
		s.selBorder.place(e.Graphics, e.Widgets.Dest(s.buttons[s.selected].widget))
	}
}

func (s *LevelSelector) handleHover(e *lemonade.Engine, okRect, backRect lemonade.Rect) {
	in, g := e.Input, e.Graphics
	var target lemonade.ID
	var rect lemonade.Rect
	switch {
	case in.MouseOver(okRect):
		target, rect = s.ok, okRect
	case in.MouseOver(backRect):
		target, rect = s.back, backRect
	}
	if target == s.hovered {
		return
	}
	s.hovered = target
	if target == lemonade.NoID {
		s.hover.hide(g)
		return
	}
	s.hover.place(g, rect)
	s.hover.show(g)
}

// Hovered returns the button widget under the cursor, or NoID.
func (s *LevelSelector) Hovered() lemonade.ID {
	return s.hovered
}

func (s *LevelSelector) Exit(e *lemonade.Engine, next lemonade.SceneID) {
	g := e.Graphics
	if !s.built(e) {
		return
	}
	e.Widgets.Hide(s.frame)
	s.selBorder.hide(g)
	s.hover.hide(g)
	s.hovered = lemonade.NoID
	if next == lemonade.SceneGame {
		e.Widgets.Clear()
		s.frame = lemonade.NoID
	}
}

// layout keeps the title screen sized to the window and the overlay on top
// of its backdrop.
func (s *LevelSelector) layout(e *lemonade.Engine) {
	g := e.Graphics
	s.main.layout(g)
	vb := g.Camera().VisibleBounds()
	bd := g.Dest(s.assets.backdrop)
	e.Widgets.SetBox(s.frame, bd.X-vb.X, bd.Y-vb.Y, bd.Width, bd.Height, lemonade.Pixels)
	e.Widgets.Layout(vb)
	if len(s.buttons) > 0 {
		s.selBorder.place(g, e.Widgets.Dest(s.buttons[s.selected].widget))
	}
	if s.hovered != lemonade.NoID {
		s.hover.place(g, e.Widgets.Dest(s.hovered))
	}
}
