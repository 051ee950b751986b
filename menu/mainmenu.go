package menu

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/lemonade"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

const (
	// selectionSpeed is how far the keyboard selection moves per held step.
	selectionSpeed = 0.10
	titleText      = "Lemonade 5000"
	titleY         = 40
	titleDrop      = 0.8 // seconds
)

const (
	itemNew = iota
	itemLoad
	itemQuit
	numItems
)

var itemLabels = [numItems]string{"New", "Load", "Quit"}

func itemLabel(i, selected int) string {
	if i == selected {
		return ">" + itemLabels[i]
	}
	return itemLabels[i]
}

// MainMenu is the title screen: a background, the title and three items.
// The selection moves at selectionSpeed per step while an arrow key is held
// and follows the mouse when it hovers an item.
type MainMenu struct {
	assets *Assets
	log    *zap.Logger

	title    lemonade.ID
	items    [numItems]lemonade.ID
	selected float64
	drop     *lemonade.TweenGroup
}

// NewMainMenu creates the title screen scene.
func NewMainMenu(a *Assets, log *zap.Logger) *MainMenu {
	if log == nil {
		log = zap.NewNop()
	}
	return &MainMenu{assets: a, log: log}
}

// Selected returns the highlighted item index.
func (m *MainMenu) Selected() int {
	return int(m.selected)
}

// Items returns the item sprites: New, Load, Quit.
func (m *MainMenu) Items() [numItems]lemonade.ID {
	return m.items
}

// Title returns the title sprite.
func (m *MainMenu) Title() lemonade.ID {
	return m.title
}

func (m *MainMenu) Enter(e *lemonade.Engine, prev lemonade.SceneID) error {
	g := e.Graphics
	if prev == lemonade.SceneLevelSelector && g.HasSprite(m.title) {
		return nil
	}

	g.ClearSprites()
	g.Camera().Reset()
	m.selected = 0

	var err error
	if m.assets.backdrop, err = g.CreateFullTextureSprite(m.assets.Background, lemonade.Rect{}); err != nil {
		return err
	}
	if m.title, err = g.CreateText(titleText, 0, -titleY, textColor); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i], err = g.CreateText(itemLabel(i, 0), 0, 0, textColor); err != nil {
			return err
		}
	}
	m.layout(g)
	m.drop = lemonade.TweenPosition(g, m.title, g.Dest(m.title).X, titleY, titleDrop, ease.OutBounce)
	return nil
}

func (m *MainMenu) Update(e *lemonade.Engine) (lemonade.SceneID, error) {
	if m.drop != nil {
		m.drop.Update(e.StepSeconds())
		if m.drop.Done {
			m.drop = nil
		}
	}
	next, err := m.handleInput(e)
	if err != nil {
		return lemonade.SceneNone, err
	}
	m.layout(e.Graphics)
	return next, nil
}

func (m *MainMenu) Exit(e *lemonade.Engine, next lemonade.SceneID) {
	if next == lemonade.SceneLevelSelector {
		return
	}
	m.drop = nil
}

func (m *MainMenu) handleInput(e *lemonade.Engine) (lemonade.SceneID, error) {
	in, g := e.Input, e.Graphics

	if in.KeyReleased(ebiten.KeyEnter) || in.KeyReleased(ebiten.KeyNumpadEnter) {
		return m.activate(int(m.selected)), nil
	}
	for i, id := range m.items {
		if in.ZoneClicked(g.DeviceDest(id), lemonade.MouseButtonLeft) {
			return m.activate(i), nil
		}
	}

	prev := int(m.selected)
	switch {
	case in.KeyDown(ebiten.KeyArrowDown):
		m.selected += selectionSpeed
		if m.selected >= numItems {
			m.selected = 0
		}
	case in.KeyDown(ebiten.KeyArrowUp):
		m.selected -= selectionSpeed
		if m.selected < 0 {
			m.selected = numItems - 0.01
		}
	default:
		for i, id := range m.items {
			if in.MouseOver(g.DeviceDest(id)) {
				m.selected = float64(i)
				break
			}
		}
	}
	if int(m.selected) == prev {
		return lemonade.SceneNone, nil
	}
	return lemonade.SceneNone, m.relabel(g)
}

func (m *MainMenu) activate(item int) lemonade.SceneID {
	switch item {
	case itemNew:
		return lemonade.SceneLevelSelector
	case itemQuit:
		return lemonade.SceneQuit
	default:
		m.log.Info("load is not available yet")
		return lemonade.SceneNone
	}
}

func (m *MainMenu) relabel(g *lemonade.Graphics) error {
	sel := int(m.selected)
	for i, id := range m.items {
		if err := g.UpdateText(id, itemLabel(i, sel), textColor); err != nil {
			return err
		}
	}
	return nil
}

// layout fits the backdrop to the screen and centres the title and items.
func (m *MainMenu) layout(g *lemonade.Graphics) {
	g.ResizeToScreen(m.assets.backdrop)
	g.CenterOnScreenX(m.title)
	spacing := g.Font().LineHeight()
	for i, id := range m.items {
		g.CenterOnScreenWithOffset(id, 0, float64(i-1)*spacing)
	}
}
