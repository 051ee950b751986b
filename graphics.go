package lemonade

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Default registry sizes.
const (
	DefaultMaxTextures = 1000
	DefaultMaxSprites  = 10000
)

// GraphicsConfig sizes the registries and the initial screen.
type GraphicsConfig struct {
	MaxTextures  int
	MaxSprites   int
	ScreenWidth  int
	ScreenHeight int
	Font         *Font
	Logger       *zap.Logger
}

// texture is one row of the texture registry.
type texture struct {
	img   *ebiten.Image
	w, h  int
	users map[ID]struct{} // sprites drawing from this texture
}

// sprite is one row of the sprite registry. logical is in world coordinates,
// device is logical run through the camera.
type sprite struct {
	texture     ID
	src         image.Rectangle
	logical     Rect
	device      Rect
	ownsTexture bool
}

// Graphics owns the texture and sprite registries, the camera and the font.
// Sprites in slots [0, TotalActive()) are drawn in slot order; the rest are
// allocated but hidden.
//
// Sprite and texture IDs handed to mutators must be live. Passing a released
// or foreign ID is a programming error and panics; use [Graphics.HasSprite]
// or [Graphics.Resolve] to check first.
type Graphics struct {
	// ClearColor fills the screen before sprites are drawn.
	ClearColor color.Color

	textures *SlotMap[texture]
	sprites  *SlotMap[sprite]
	active   int

	camera *Camera
	font   *Font
	log    *zap.Logger

	screenW, screenH int

	debug bool
	stats debugStats
}

// NewGraphics creates empty registries sized by cfg. Zero limits fall back to
// DefaultMaxTextures and DefaultMaxSprites.
func NewGraphics(cfg GraphicsConfig) *Graphics {
	if cfg.MaxTextures <= 0 {
		cfg.MaxTextures = DefaultMaxTextures
	}
	if cfg.MaxSprites <= 0 {
		cfg.MaxSprites = DefaultMaxSprites
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	g := &Graphics{
		ClearColor: ColorBlack,
		textures:   NewSlotMap[texture]("texture", cfg.MaxTextures),
		sprites:    NewSlotMap[sprite]("sprite", cfg.MaxSprites),
		font:       cfg.Font,
		log:        log,
	}
	g.camera = newCamera(g)
	g.SetScreenSize(cfg.ScreenWidth, cfg.ScreenHeight)
	return g
}

// Camera returns the camera applied to every sprite.
func (g *Graphics) Camera() *Camera {
	return g.camera
}

// Font returns the font used for text textures, or nil.
func (g *Graphics) Font() *Font {
	return g.font
}

// SetFont replaces the font used for subsequently created text.
func (g *Graphics) SetFont(f *Font) {
	g.font = f
}

// SetScreenSize records the window size in pixels. The camera viewport
// follows it.
func (g *Graphics) SetScreenSize(w, h int) {
	g.screenW, g.screenH = w, h
	g.camera.SetViewport(float64(w), float64(h))
}

// ScreenSize returns the last recorded window size.
func (g *Graphics) ScreenSize() (w, h int) {
	return g.screenW, g.screenH
}

// ClearSprites deletes every sprite. Textures stay loaded, minus the text
// textures owned by the deleted sprites.
func (g *Graphics) ClearSprites() {
	for i := 0; i < g.sprites.Len(); i++ {
		s := g.sprites.At(i)
		if s.ownsTexture {
			g.destroyTexture(s.texture)
		}
	}
	for i := 0; i < g.textures.Len(); i++ {
		clear(g.textures.At(i).users)
	}
	g.sprites.Clear()
	g.active = 0
	g.camera.invalidate()
}

// Clear deletes every sprite and texture.
func (g *Graphics) Clear() {
	g.sprites.Clear()
	g.active = 0
	for i := 0; i < g.textures.Len(); i++ {
		g.textures.At(i).img.Deallocate()
	}
	g.textures.Clear()
	g.camera.invalidate()
}

// destroyTexture releases a texture without cascading to its users.
func (g *Graphics) destroyTexture(id ID) {
	t, err := g.textures.Get(id)
	if err != nil {
		return
	}
	t.img.Deallocate()
	_ = g.textures.Remove(id)
}
