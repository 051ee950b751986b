package lemonade

import (
	"errors"
	"image"
	"math/rand/v2"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestGraphics(t *testing.T) *Graphics {
	t.Helper()
	font, err := DefaultFont(16)
	if err != nil {
		t.Fatal(err)
	}
	return NewGraphics(GraphicsConfig{
		MaxTextures:  64,
		MaxSprites:   256,
		ScreenWidth:  800,
		ScreenHeight: 600,
		Font:         font,
		Logger:       zaptest.NewLogger(t),
	})
}

func solidSprite(t *testing.T, g *Graphics, dest Rect) (tex, id ID) {
	t.Helper()
	tex = g.CreateSolidTexture(ColorWhite)
	id, err := g.CreateFullTextureSprite(tex, dest)
	if err != nil {
		t.Fatal(err)
	}
	return tex, id
}

func assertOrder(t *testing.T, g *Graphics, want ...ID) {
	t.Helper()
	got := g.ActiveIDs()
	if len(got) != len(want) {
		t.Fatalf("active = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("active = %v, want %v", got, want)
		}
	}
}

func TestCreateSpriteIsActiveAndLast(t *testing.T) {
	g := newTestGraphics(t)
	tex := g.CreateSolidTexture(ColorWhite)
	a, _ := g.CreateFullTextureSprite(tex, Rect{Width: 10, Height: 10})
	hidden, _ := g.CreateInactiveSprite(tex)
	b, _ := g.CreateTilesetSprite(tex, image.Rect(0, 0, 1, 1), Rect{Width: 5, Height: 5})

	if g.SpriteCount() != 3 || g.TotalActive() != 2 {
		t.Fatalf("count=%d active=%d, want 3 and 2", g.SpriteCount(), g.TotalActive())
	}
	assertOrder(t, g, a, b)
	if g.IsActive(hidden) {
		t.Error("inactive sprite reported active")
	}
}

func TestCreateSpriteInvalidTexture(t *testing.T) {
	g := newTestGraphics(t)
	tex := g.CreateSolidTexture(ColorWhite)
	g.DeleteTexture(tex)
	_, err := g.CreateFullTextureSprite(tex, Rect{})
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}
	_, err = g.CreateTilesetSprite(tex, image.Rect(0, 0, 1, 1), Rect{})
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("tileset err = %v, want ErrInvalidID", err)
	}
}

func TestTranslate(t *testing.T) {
	g := newTestGraphics(t)
	_, id := solidSprite(t, g, Rect{X: 10, Y: 10, Width: 5, Height: 5})
	g.Translate(id, 3, -2)
	if got, want := g.Dest(id), (Rect{X: 13, Y: 8, Width: 5, Height: 5}); got != want {
		t.Errorf("Dest = %v, want %v", got, want)
	}
}

func TestSetPositionAndSize(t *testing.T) {
	g := newTestGraphics(t)
	_, id := solidSprite(t, g, Rect{X: 1, Y: 2, Width: 3, Height: 4})
	g.SetPosition(id, 20, 30)
	g.SetSize(id, 7, 8)
	if got, want := g.Dest(id), (Rect{X: 20, Y: 30, Width: 7, Height: 8}); got != want {
		t.Errorf("Dest = %v, want %v", got, want)
	}
	g.SetSourceAndDest(id, image.Rect(0, 0, 1, 1), Rect{Width: 2, Height: 2})
	if g.SourceRect(id) != image.Rect(0, 0, 1, 1) {
		t.Errorf("SourceRect = %v", g.SourceRect(id))
	}
}

func TestReorderAfter(t *testing.T) {
	g := newTestGraphics(t)
	_, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	_, b := solidSprite(t, g, Rect{Width: 1, Height: 1})
	_, c := solidSprite(t, g, Rect{Width: 1, Height: 1})

	g.ReorderAfter(a, c)
	assertOrder(t, g, b, c, a)

	g.ReorderAfter(a, b)
	assertOrder(t, g, b, a, c)

	// Already in place.
	g.ReorderAfter(a, b)
	assertOrder(t, g, b, a, c)

	for _, id := range []ID{a, b, c} {
		if !g.HasSprite(id) {
			t.Errorf("%v lost after reorder", id)
		}
	}
}

func TestReorderAfterAcrossPartitionPanics(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	hidden, _ := g.CreateInactiveSprite(tex)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	g.ReorderAfter(hidden, a)
}

func TestSetActiveIdempotent(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	_, b := solidSprite(t, g, Rect{Width: 1, Height: 1})
	c, _ := g.CreateInactiveSprite(tex)

	g.SetActive(a)
	assertOrder(t, g, a, b)
	g.SetInactive(c)
	assertOrder(t, g, a, b)

	g.SetActive(c)
	assertOrder(t, g, a, b, c)
	g.SetInactive(a)
	if g.IsActive(a) || g.TotalActive() != 2 {
		t.Errorf("SetInactive: active=%d", g.TotalActive())
	}
	g.SetInactive(a)
	if g.TotalActive() != 2 {
		t.Errorf("second SetInactive changed active count to %d", g.TotalActive())
	}
}

func TestDeleteSpriteKeepsOrder(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	_, b := solidSprite(t, g, Rect{Width: 1, Height: 1})
	_, c := solidSprite(t, g, Rect{Width: 1, Height: 1})
	hidden, _ := g.CreateInactiveSprite(tex)

	g.DeleteSprite(a)
	assertOrder(t, g, b, c)
	if g.HasSprite(a) {
		t.Error("deleted sprite still resolves")
	}
	if !g.HasSprite(hidden) || g.IsActive(hidden) {
		t.Error("inactive sprite disturbed by delete")
	}
	if !g.HasTexture(tex) {
		t.Error("shared texture deleted with sprite")
	}
}

func TestDeleteSpriteInvalidPanics(t *testing.T) {
	g := newTestGraphics(t)
	_, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	g.DeleteSprite(a)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on stale id")
		}
	}()
	g.DeleteSprite(a)
}

func TestDeleteTextureCascades(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	b, _ := g.CreateFullTextureSprite(tex, Rect{Width: 2, Height: 2})
	c, _ := g.CreateInactiveSprite(tex)
	_, other := solidSprite(t, g, Rect{Width: 3, Height: 3})

	g.DeleteTexture(tex)
	for _, id := range []ID{a, b, c} {
		if g.HasSprite(id) {
			t.Errorf("sprite %v survived its texture", id)
		}
	}
	if g.HasTexture(tex) {
		t.Error("texture still live")
	}
	assertOrder(t, g, other)

	// Unknown texture is a no-op.
	g.DeleteTexture(tex)
}

func TestTextSpriteOwnsTexture(t *testing.T) {
	g := newTestGraphics(t)
	id, err := g.CreateText("hello", 5, 6, ColorYellow)
	if err != nil {
		t.Fatal(err)
	}
	tex := g.SpriteTexture(id)
	w, h := g.TextureSize(tex)
	d := g.Dest(id)
	if d.X != 5 || d.Y != 6 || d.Width != float64(w) || d.Height != float64(h) {
		t.Errorf("Dest = %v, texture %dx%d", d, w, h)
	}

	g.DeleteSprite(id)
	if g.HasTexture(tex) {
		t.Error("text texture not released with its sprite")
	}
}

func TestSetTextReplacesTexture(t *testing.T) {
	g := newTestGraphics(t)
	id, err := g.CreateText("a", 0, 0, ColorWhite)
	if err != nil {
		t.Fatal(err)
	}
	old := g.SpriteTexture(id)
	if err := g.UpdateText(id, "a much longer line", ColorWhite); err != nil {
		t.Fatal(err)
	}
	if g.HasTexture(old) {
		t.Error("old text texture leaked")
	}
	if g.SpriteTexture(id) == old {
		t.Error("texture not replaced")
	}
	if g.TextureCount() != 1 {
		t.Errorf("TextureCount = %d, want 1", g.TextureCount())
	}
}

func TestTextWithoutFont(t *testing.T) {
	g := NewGraphics(GraphicsConfig{ScreenWidth: 100, ScreenHeight: 100, Logger: zaptest.NewLogger(t)})
	if _, err := g.CreateText("x", 0, 0, ColorWhite); err == nil {
		t.Error("expected error without a font")
	}
	if g.SpriteCount() != 0 || g.TextureCount() != 0 {
		t.Error("failed text left registry entries")
	}
}

func TestClearSprites(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	txt, _ := g.CreateText("x", 0, 0, ColorWhite)
	txtTex := g.SpriteTexture(txt)

	g.ClearSprites()
	if g.SpriteCount() != 0 || g.TotalActive() != 0 {
		t.Fatal("sprites remain")
	}
	if g.HasSprite(a) {
		t.Error("cleared id still resolves")
	}
	if !g.HasTexture(tex) {
		t.Error("loaded texture dropped")
	}
	if g.HasTexture(txtTex) {
		t.Error("text texture kept")
	}
	// The texture still cascades to sprites created after the clear.
	b, _ := g.CreateFullTextureSprite(tex, Rect{Width: 1, Height: 1})
	g.DeleteTexture(tex)
	if g.HasSprite(b) {
		t.Error("cascade missed new sprite")
	}
}

func TestClearAll(t *testing.T) {
	g := newTestGraphics(t)
	tex, a := solidSprite(t, g, Rect{Width: 1, Height: 1})
	g.Clear()
	if g.HasSprite(a) || g.HasTexture(tex) || g.TextureCount() != 0 {
		t.Error("Clear left entries")
	}
}

func TestCenterHelpers(t *testing.T) {
	g := newTestGraphics(t)
	_, id := solidSprite(t, g, Rect{Width: 100, Height: 50})

	g.CenterOnScreen(id)
	if got, want := g.Dest(id), (Rect{X: 350, Y: 275, Width: 100, Height: 50}); got != want {
		t.Errorf("CenterOnScreen = %v, want %v", got, want)
	}
	g.CenterOnScreenWithOffset(id, 10, -5)
	if got := g.Dest(id); got.X != 360 || got.Y != 270 {
		t.Errorf("with offset = %v", got)
	}
	g.SetPosition(id, 0, 0)
	g.CenterOnScreenX(id)
	if got := g.Dest(id); got.X != 350 || got.Y != 0 {
		t.Errorf("CenterOnScreenX = %v", got)
	}
	g.CenterInRect(id, Rect{X: 10, Y: 10, Width: 200, Height: 100})
	if got := g.Dest(id); got.X != 60 || got.Y != 35 {
		t.Errorf("CenterInRect = %v", got)
	}
}

func TestCenterInRectKeepAspect(t *testing.T) {
	g := newTestGraphics(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	tex := g.LoadTextureFromImage(img)
	id, _ := g.CreateFullTextureSprite(tex, Rect{})

	g.CenterInRectKeepAspect(id, Rect{X: 0, Y: 0, Width: 100, Height: 100})
	if got, want := g.Dest(id), (Rect{X: 0, Y: 25, Width: 100, Height: 50}); got != want {
		t.Errorf("Dest = %v, want %v", got, want)
	}
}

func TestResizeToScreenCrops(t *testing.T) {
	g := newTestGraphics(t)
	img := image.NewNRGBA(image.Rect(0, 0, 400, 100)) // 4:1, wider than 800x600
	tex := g.LoadTextureFromImage(img)
	id, _ := g.CreateFullTextureSprite(tex, Rect{})

	g.ResizeToScreen(id)
	if got, want := g.Dest(id), (Rect{X: 0, Y: 0, Width: 800, Height: 600}); got != want {
		t.Errorf("Dest = %v, want %v", got, want)
	}
	src := g.SourceRect(id)
	if src.Dy() != 100 || src.Dx() != 133 || src.Min.X != 133 {
		t.Errorf("SourceRect = %v", src)
	}
}

func TestResizeToScreenNarrow(t *testing.T) {
	g := newTestGraphics(t)
	img := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	tex := g.LoadTextureFromImage(img)
	id, _ := g.CreateFullTextureSprite(tex, Rect{})

	g.ResizeToScreen(id)
	if got, want := g.Dest(id), (Rect{X: 250, Y: 0, Width: 300, Height: 600}); got != want {
		t.Errorf("Dest = %v, want %v", got, want)
	}
}

func TestSpriteCapacityPanics(t *testing.T) {
	g := NewGraphics(GraphicsConfig{MaxSprites: 2, ScreenWidth: 10, ScreenHeight: 10})
	tex := g.CreateSolidTexture(ColorWhite)
	g.CreateFullTextureSprite(tex, Rect{})
	g.CreateFullTextureSprite(tex, Rect{})
	defer func() {
		if recover() == nil {
			t.Error("expected panic past MaxSprites")
		}
	}()
	g.CreateFullTextureSprite(tex, Rect{})
}

func TestStaleIDsAfterRandomLifecycle(t *testing.T) {
	g := newTestGraphics(t)
	tex := g.CreateSolidTexture(ColorWhite)
	var live, dead []ID
	for i := 0; i < 200; i++ {
		switch {
		case i%4 == 3 && len(live) > 0:
			id := live[len(live)/2]
			live = append(live[:len(live)/2], live[len(live)/2+1:]...)
			g.DeleteSprite(id)
			dead = append(dead, id)
		case i%5 == 0 && len(live) > 0:
			g.SetInactive(live[0])
		default:
			id, err := g.CreateFullTextureSprite(tex, Rect{X: float64(i), Width: 1, Height: 1})
			if err != nil {
				t.Fatal(err)
			}
			live = append(live, id)
		}
	}
	for _, id := range live {
		if _, err := g.Resolve(id); err != nil {
			t.Fatalf("live %v: %v", id, err)
		}
	}
	for _, id := range dead {
		if _, err := g.Resolve(id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("dead %v resolved", id)
		}
	}
	if g.SpriteCount() != len(live) {
		t.Errorf("SpriteCount = %d, want %d", g.SpriteCount(), len(live))
	}
	if g.TotalActive() > g.SpriteCount() {
		t.Errorf("active %d > count %d", g.TotalActive(), g.SpriteCount())
	}
}

func TestRandomToggleKeepsPayloadsAndPartition(t *testing.T) {
	g := newTestGraphics(t)
	tex := g.CreateSolidTexture(ColorWhite)
	rng := rand.New(rand.NewPCG(7, 11))

	x := make(map[ID]float64)
	var active, inactive []ID
	for i := 0; i < 64; i++ {
		id, err := g.CreateFullTextureSprite(tex, Rect{X: float64(i), Width: 1, Height: 1})
		if err != nil {
			t.Fatal(err)
		}
		x[id] = float64(i)
		active = append(active, id)
	}

	for step := 0; step < 2000; step++ {
		switch op := rng.IntN(4); {
		case op == 0 && len(active) > 0:
			p := rng.IntN(len(active))
			id := active[p]
			g.SetInactive(id)
			last := len(active) - 1
			active[p] = active[last]
			active = active[:last]
			inactive = append(inactive, id)
		case op == 1 && len(inactive) > 0:
			p := rng.IntN(len(inactive))
			id := inactive[p]
			g.SetActive(id)
			inactive = slices.Delete(inactive, p, p+1)
			active = append(active, id)
		case op == 2 && len(active) > 1:
			a, b := active[rng.IntN(len(active))], active[rng.IntN(len(active))]
			if a == b {
				continue
			}
			g.ReorderAfter(a, b)
			active = slices.Delete(active, slices.Index(active, a), slices.Index(active, a)+1)
			at := slices.Index(active, b) + 1
			active = slices.Insert(active, at, a)
		case op == 3 && len(active)+len(inactive) > 16:
			if len(active) > 0 && rng.IntN(2) == 0 {
				p := rng.IntN(len(active))
				g.DeleteSprite(active[p])
				delete(x, active[p])
				active = slices.Delete(active, p, p+1)
			} else if len(inactive) > 0 {
				p := rng.IntN(len(inactive))
				g.DeleteSprite(inactive[p])
				delete(x, inactive[p])
				inactive = slices.Delete(inactive, p, p+1)
			}
		}
	}

	if g.TotalActive() != len(active) || g.SpriteCount() != len(active)+len(inactive) {
		t.Fatalf("active %d/%d, want %d/%d", g.TotalActive(), g.SpriteCount(),
			len(active), len(active)+len(inactive))
	}
	assertOrder(t, g, active...)
	for id, want := range x {
		if got := g.Dest(id).X; got != want {
			t.Errorf("sprite %v X = %v, want %v", id, got, want)
		}
	}
	for _, id := range inactive {
		slot, err := g.Resolve(id)
		if err != nil {
			t.Fatal(err)
		}
		if slot < g.TotalActive() || g.IsActive(id) {
			t.Errorf("inactive %v in active slot %d", id, slot)
		}
	}
}
