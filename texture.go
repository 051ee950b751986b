package lemonade

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
)

var errNoFont = errors.New("lemonade: no font loaded")

// LoadTexture decodes a PNG or BMP file, makes ColorKey pixels transparent
// and registers the result.
func (g *Graphics) LoadTexture(path string) (ID, error) {
	f, err := os.Open(path)
	if err != nil {
		return NoID, fmt.Errorf("lemonade: load texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return NoID, fmt.Errorf("lemonade: decode texture %s: %w", path, err)
	}
	id := g.LoadTextureFromImage(img)
	g.log.Debug("texture loaded", zap.String("path", path), zap.Stringer("id", id),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return id, nil
}

// LoadTextureFromImage registers an in-memory image, applying the colour key.
func (g *Graphics) LoadTextureFromImage(img image.Image) ID {
	keyed := applyColorKey(img, ColorKey)
	return g.addTexture(ebiten.NewImageFromImage(keyed))
}

// CreateSolidTexture registers a 1x1 texture filled with c. Sprites stretch
// it to their destination rectangle.
func (g *Graphics) CreateSolidTexture(c color.Color) ID {
	img := ebiten.NewImage(1, 1)
	img.Fill(c)
	return g.addTexture(img)
}

// CreateTextTexture rasterises s with the current font at its natural size.
func (g *Graphics) CreateTextTexture(s string, c color.Color) (ID, error) {
	if g.font == nil {
		g.log.Warn("text texture without font", zap.String("text", s))
		return NoID, errNoFont
	}
	return g.addTexture(g.font.rasterize(s, c)), nil
}

func (g *Graphics) addTexture(img *ebiten.Image) ID {
	b := img.Bounds()
	id, _ := g.textures.Insert(texture{
		img:   img,
		w:     b.Dx(),
		h:     b.Dy(),
		users: make(map[ID]struct{}),
	})
	return id
}

// HasTexture reports whether id refers to a live texture.
func (g *Graphics) HasTexture(id ID) bool {
	return g.textures.Has(id)
}

// TextureSize returns the pixel size of a texture.
func (g *Graphics) TextureSize(id ID) (w, h int) {
	t := g.mustTexture(id)
	return t.w, t.h
}

// TextureImage returns the backing image of a texture.
func (g *Graphics) TextureImage(id ID) *ebiten.Image {
	return g.mustTexture(id).img
}

// DeleteTexture releases a texture and deletes every sprite that draws from
// it. Deleting an unknown ID is a no-op.
func (g *Graphics) DeleteTexture(id ID) {
	t, err := g.textures.Get(id)
	if err != nil {
		return
	}
	users := make([]ID, 0, len(t.users))
	for sid := range t.users {
		users = append(users, sid)
	}
	for _, sid := range users {
		g.deleteSprite(sid, false)
	}
	g.destroyTexture(id)
}

// TextureCount returns the number of live textures.
func (g *Graphics) TextureCount() int {
	return g.textures.Len()
}

func (g *Graphics) mustTexture(id ID) *texture {
	t, err := g.textures.Get(id)
	if err != nil {
		panic(fmt.Sprintf("lemonade: %v", err))
	}
	return t
}
