package menu

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/lemonade"
	"go.uber.org/zap/zaptest"
)

type stubGame struct {
	entered int
}

func (s *stubGame) Enter(*lemonade.Engine, lemonade.SceneID) error { s.entered++; return nil }
func (s *stubGame) Exit(*lemonade.Engine, lemonade.SceneID)        {}
func (s *stubGame) Update(*lemonade.Engine) (lemonade.SceneID, error) {
	return lemonade.SceneNone, nil
}

type fixture struct {
	e        *lemonade.Engine
	src      *lemonade.StaticInput
	main     *MainMenu
	selector *LevelSelector
	game     *stubGame
}

func newFixture(t *testing.T, levels ...string) *fixture {
	t.Helper()
	cfg := lemonade.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 800, 600
	cfg.Assets.Dir = t.TempDir()

	log := zaptest.NewLogger(t)
	src := &lemonade.StaticInput{X: -1, Y: -1}
	e, err := lemonade.NewEngine(cfg, log, src)
	if err != nil {
		t.Fatal(err)
	}
	assets, err := LoadAssets(e)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{e: e, src: src, game: &stubGame{}}
	f.main = NewMainMenu(assets, log)
	f.selector = NewLevelSelector(f.main, levels, log)
	e.Director.Register(lemonade.SceneMainMenu, f.main)
	e.Director.Register(lemonade.SceneLevelSelector, f.selector)
	e.Director.Register(lemonade.SceneGame, f.game)
	if err := e.Director.Start(e, lemonade.SceneMainMenu); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) step(t *testing.T, n int) bool {
	t.Helper()
	running := true
	for i := 0; i < n; i++ {
		var err error
		running, err = f.e.Step()
		if err != nil {
			t.Fatal(err)
		}
		if !running {
			break
		}
	}
	return running
}

func (f *fixture) center(id lemonade.ID) (int, int) {
	x, y := f.e.Graphics.DeviceDest(id).Center()
	return int(x), int(y)
}

func (f *fixture) widgetCenter(id lemonade.ID) (int, int) {
	x, y := f.e.Widgets.Dest(id).Center()
	return int(x), int(y)
}

func TestLoadAssetsFallbacks(t *testing.T) {
	f := newFixture(t)
	g := f.e.Graphics
	a := f.main.assets
	for _, id := range []lemonade.ID{a.Background, a.OK, a.Back, a.Light, a.Green} {
		if !g.HasTexture(id) {
			t.Errorf("texture %v missing", id)
		}
	}
	if w, h := g.TextureSize(a.Background); w != 1 || h != 1 {
		t.Errorf("fallback background = %dx%d, want 1x1", w, h)
	}
	if w, _ := g.TextureSize(a.OK); w <= 1 {
		t.Error("OK fallback is not rendered text")
	}
}

func TestMainMenuLayout(t *testing.T) {
	f := newFixture(t)
	g := f.e.Graphics

	bd := g.Dest(f.main.assets.Backdrop())
	if bd.Height != 600 || bd.X != 100 || bd.Width != 600 {
		t.Errorf("backdrop = %v, want square fitted to the screen height", bd)
	}
	items := f.main.Items()
	for i, id := range items {
		d := g.Dest(id)
		if cx := d.X + d.Width/2; cx < 399 || cx > 401 {
			t.Errorf("item %d centre x = %f", i, cx)
		}
	}
	if g.Dest(items[0]).Y >= g.Dest(items[1]).Y || g.Dest(items[1]).Y >= g.Dest(items[2]).Y {
		t.Error("items not stacked top to bottom")
	}
	// Backdrop first, then the title, then the items.
	ids := g.ActiveIDs()
	if ids[0] != f.main.assets.Backdrop() || ids[1] != f.main.Title() {
		t.Errorf("draw order = %v", ids)
	}
}

func TestMainMenuTitleDrops(t *testing.T) {
	f := newFixture(t)
	g := f.e.Graphics
	if y := g.Dest(f.main.Title()).Y; y >= 0 {
		t.Fatalf("title starts at y=%f, want above the screen", y)
	}
	f.step(t, int(titleDrop/f.e.Loop.Seconds())+2)
	if y := g.Dest(f.main.Title()).Y; y < titleY-0.5 || y > titleY+0.5 {
		t.Errorf("title y = %f, want %d", y, titleY)
	}
}

func TestMainMenuKeyboardSelection(t *testing.T) {
	f := newFixture(t)
	f.src.Keys = []ebiten.Key{ebiten.KeyArrowDown}
	f.step(t, 5)
	if f.main.Selected() != 0 {
		t.Fatalf("Selected = %d after 5 steps, want 0", f.main.Selected())
	}
	f.step(t, 10)
	if f.main.Selected() != 1 {
		t.Fatalf("Selected = %d after 15 steps, want 1", f.main.Selected())
	}

	f.src.Keys = []ebiten.Key{ebiten.KeyArrowUp}
	f.step(t, 20)
	if f.main.Selected() != 2 {
		t.Errorf("Selected = %d, want wrap to 2", f.main.Selected())
	}
}

func TestMainMenuMouseHover(t *testing.T) {
	f := newFixture(t)
	f.src.X, f.src.Y = f.center(f.main.Items()[2])
	f.step(t, 1)
	if f.main.Selected() != 2 {
		t.Errorf("Selected = %d, want 2", f.main.Selected())
	}
}

func TestMainMenuQuit(t *testing.T) {
	f := newFixture(t)
	x, y := f.center(f.main.Items()[itemQuit])
	f.e.Input.InjectClick(x, y)
	if running := f.step(t, 3); running {
		t.Error("Quit click did not stop the loop")
	}
}

func TestMainMenuLoadIsInert(t *testing.T) {
	f := newFixture(t)
	x, y := f.center(f.main.Items()[itemLoad])
	f.e.Input.InjectClick(x, y)
	f.step(t, 3)
	if f.e.Director.Current() != lemonade.SceneMainMenu {
		t.Errorf("Current = %v", f.e.Director.Current())
	}
}

func (f *fixture) openSelector(t *testing.T) {
	t.Helper()
	f.e.Input.InjectKeyTap(ebiten.KeyEnter)
	f.step(t, 2)
	if f.e.Director.Current() != lemonade.SceneLevelSelector {
		t.Fatalf("Current = %v, want level selector", f.e.Director.Current())
	}
}

func TestLevelSelectorOpensOverMenu(t *testing.T) {
	f := newFixture(t, "Main Street", "Park Corner")
	title := f.main.Title()
	f.openSelector(t)

	g, ws := f.e.Graphics, f.e.Widgets
	if !g.HasSprite(title) || !g.IsActive(title) {
		t.Error("title screen cleared under the overlay")
	}
	bd := g.Dest(f.main.assets.Backdrop())
	panel := ws.Dest(f.selector.Panel())
	want := lemonade.Rect{
		X: bd.X + bd.Width*0.1, Y: bd.Y + bd.Height*0.1,
		Width: bd.Width * 0.8, Height: bd.Height * 0.8,
	}
	if panel != want {
		t.Errorf("panel = %v, want %v", panel, want)
	}
	if !f.selector.selBorder.visible(g) {
		t.Error("selection border hidden")
	}
	if b := g.Dest(f.selector.selBorder[0]); b.X != ws.Dest(f.selector.LevelButton(0)).X {
		t.Errorf("selection border at %v", b)
	}
	ok := ws.Dest(f.selector.OKButton())
	if ok.X+ok.Width != panel.X+panel.Width-40 || ok.Y+ok.Height != panel.Y+panel.Height-5 {
		t.Errorf("OK button = %v in panel %v", ok, panel)
	}
}

func TestLevelSelectorArrowsAndStart(t *testing.T) {
	f := newFixture(t, "Main Street", "Park Corner", "Harbour")
	f.openSelector(t)

	f.e.Input.InjectKeyTap(ebiten.KeyArrowLeft)
	f.step(t, 2)
	if f.selector.Selected() != 2 {
		t.Fatalf("Selected = %d, want wrap to 2", f.selector.Selected())
	}
	f.e.Input.InjectKeyTap(ebiten.KeyArrowRight)
	f.step(t, 2)
	f.e.Input.InjectKeyTap(ebiten.KeyArrowRight)
	f.step(t, 2)
	if f.selector.Selected() != 1 {
		t.Fatalf("Selected = %d, want 1", f.selector.Selected())
	}

	x, y := f.widgetCenter(f.selector.OKButton())
	f.e.Input.InjectClick(x, y)
	f.step(t, 2)
	if f.e.Director.Current() != lemonade.SceneGame || f.game.entered != 1 {
		t.Fatalf("Current = %v, want game", f.e.Director.Current())
	}
	if f.e.SelectedLevel != "Park Corner" {
		t.Errorf("SelectedLevel = %q", f.e.SelectedLevel)
	}
	if f.e.Widgets.Len() != 0 {
		t.Errorf("%d widgets left after starting the game", f.e.Widgets.Len())
	}
}

func TestLevelSelectorClickLevel(t *testing.T) {
	f := newFixture(t, "A", "B", "C", "D", "E")
	f.openSelector(t)
	x, y := f.widgetCenter(f.selector.LevelButton(4))
	f.e.Input.InjectClick(x, y)
	f.step(t, 2)
	if f.selector.Selected() != 4 {
		t.Errorf("Selected = %d, want 4", f.selector.Selected())
	}
}

func TestLevelSelectorBackAndReopen(t *testing.T) {
	f := newFixture(t, "Main Street")
	f.openSelector(t)
	widgets := f.e.Widgets.Len()

	x, y := f.widgetCenter(f.selector.BackButton())
	f.src.X, f.src.Y = x, y
	f.step(t, 1)
	if f.selector.Hovered() != f.selector.BackButton() || !f.selector.hover.visible(f.e.Graphics) {
		t.Error("back button not hovered")
	}
	f.e.Input.InjectClick(x, y)
	f.step(t, 2)
	if f.e.Director.Current() != lemonade.SceneMainMenu {
		t.Fatalf("Current = %v, want main menu", f.e.Director.Current())
	}
	if f.e.Widgets.Visible(f.selector.Panel()) || f.selector.hover.visible(f.e.Graphics) {
		t.Error("overlay still visible")
	}

	f.openSelector(t)
	if f.e.Widgets.Len() != widgets {
		t.Errorf("widgets = %d after reopening, want %d", f.e.Widgets.Len(), widgets)
	}
	if !f.e.Widgets.Visible(f.selector.Panel()) {
		t.Error("panel hidden after reopening")
	}
}

func TestLevelSelectorEscape(t *testing.T) {
	f := newFixture(t, "Main Street")
	f.openSelector(t)
	f.e.Input.InjectKeyTap(ebiten.KeyEscape)
	f.step(t, 2)
	if f.e.Director.Current() != lemonade.SceneMainMenu {
		t.Errorf("Current = %v, want main menu", f.e.Director.Current())
	}
}

func TestLevelSelectorCapsLevels(t *testing.T) {
	names := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	f := newFixture(t, names...)
	f.openSelector(t)
	if n := len(f.selector.buttons); n != maxLevels {
		t.Errorf("buttons = %d, want %d", n, maxLevels)
	}
}
