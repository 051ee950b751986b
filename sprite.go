package lemonade

import (
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"
)

// --- Creation ---

// CreateTilesetSprite creates an active sprite drawing the src region of tex
// into dest (world coordinates). The sprite is drawn after every existing
// active sprite.
func (g *Graphics) CreateTilesetSprite(tex ID, src image.Rectangle, dest Rect) (ID, error) {
	return g.createSprite(tex, src, dest, true, false)
}

// CreateFullTextureSprite creates an active sprite drawing the whole of tex.
func (g *Graphics) CreateFullTextureSprite(tex ID, dest Rect) (ID, error) {
	t, err := g.textures.Get(tex)
	if err != nil {
		return NoID, err
	}
	return g.createSprite(tex, image.Rect(0, 0, t.w, t.h), dest, true, false)
}

// CreateInactiveSprite creates a hidden full-texture sprite with an empty
// destination. Position it and call SetActive to show it.
func (g *Graphics) CreateInactiveSprite(tex ID) (ID, error) {
	t, err := g.textures.Get(tex)
	if err != nil {
		return NoID, err
	}
	return g.createSprite(tex, image.Rect(0, 0, t.w, t.h), Rect{}, false, false)
}

// CreateText renders s and creates an active sprite at (x, y) sized to the
// text. The sprite owns the texture; deleting the sprite releases it.
func (g *Graphics) CreateText(s string, x, y float64, c color.Color) (ID, error) {
	tex, err := g.CreateTextTexture(s, c)
	if err != nil {
		return NoID, err
	}
	t := g.textures.At(g.mustTextureSlot(tex))
	return g.createSprite(tex, image.Rect(0, 0, t.w, t.h),
		Rect{X: x, Y: y, Width: float64(t.w), Height: float64(t.h)}, true, true)
}

// CreateInactiveText renders s into a hidden sprite with its natural size.
func (g *Graphics) CreateInactiveText(s string, c color.Color) (ID, error) {
	tex, err := g.CreateTextTexture(s, c)
	if err != nil {
		return NoID, err
	}
	t := g.textures.At(g.mustTextureSlot(tex))
	return g.createSprite(tex, image.Rect(0, 0, t.w, t.h),
		Rect{Width: float64(t.w), Height: float64(t.h)}, false, true)
}

// CreateTextCentered renders s and centres it inside zone.
func (g *Graphics) CreateTextCentered(s string, zone Rect, c color.Color) (ID, error) {
	id, err := g.CreateText(s, zone.X, zone.Y, c)
	if err != nil {
		return NoID, err
	}
	g.CenterInRect(id, zone)
	return id, nil
}

func (g *Graphics) createSprite(tex ID, src image.Rectangle, dest Rect, active, owns bool) (ID, error) {
	t, err := g.textures.Get(tex)
	if err != nil {
		return NoID, fmt.Errorf("lemonade: create sprite: %w", err)
	}
	id, slot := g.sprites.Insert(sprite{
		texture:     tex,
		src:         src,
		logical:     dest,
		device:      g.camera.apply(dest),
		ownsTexture: owns,
	})
	t.users[id] = struct{}{}
	if active {
		g.sprites.Swap(slot, g.active)
		g.active++
		g.camera.invalidate()
	}
	return id, nil
}

// --- Text ---

// SetText replaces the sprite's texture with a rendering of s placed at
// (x, y) with its natural size. The previous texture is released only after
// the new one exists, and only if the sprite owned it. On failure the sprite
// is left untouched.
func (g *Graphics) SetText(id ID, s string, x, y float64, c color.Color) error {
	slot := g.mustSlot(id)
	tex, err := g.CreateTextTexture(s, c)
	if err != nil {
		g.log.Warn("set text failed", zap.Stringer("sprite", id), zap.Error(err))
		return err
	}

	sp := g.sprites.At(slot)
	old, ownedOld := sp.texture, sp.ownsTexture

	t := g.textures.At(g.mustTextureSlot(tex))
	t.users[id] = struct{}{}
	sp.texture = tex
	sp.ownsTexture = true
	sp.src = image.Rect(0, 0, t.w, t.h)
	g.setLogical(slot, Rect{X: x, Y: y, Width: float64(t.w), Height: float64(t.h)})

	if ot, err := g.textures.Get(old); err == nil {
		delete(ot.users, id)
		if ownedOld {
			g.DeleteTexture(old)
		}
	}
	return nil
}

// UpdateText is SetText keeping the sprite's current position.
func (g *Graphics) UpdateText(id ID, s string, c color.Color) error {
	d := g.Dest(id)
	return g.SetText(id, s, d.X, d.Y, c)
}

// --- Rect mutation ---

// SetPosition moves the sprite's top-left corner to (x, y), keeping its size.
func (g *Graphics) SetPosition(id ID, x, y float64) {
	slot := g.mustSlot(id)
	r := g.sprites.At(slot).logical
	r.X, r.Y = x, y
	g.setLogical(slot, r)
}

// Translate moves the sprite by (dx, dy).
func (g *Graphics) Translate(id ID, dx, dy float64) {
	slot := g.mustSlot(id)
	r := g.sprites.At(slot).logical
	r.X += dx
	r.Y += dy
	g.setLogical(slot, r)
}

// SetSize resizes the sprite keeping its top-left corner.
func (g *Graphics) SetSize(id ID, w, h float64) {
	slot := g.mustSlot(id)
	r := g.sprites.At(slot).logical
	r.Width, r.Height = w, h
	g.setLogical(slot, r)
}

// SetDestRect replaces the sprite's destination rectangle.
func (g *Graphics) SetDestRect(id ID, dest Rect) {
	g.setLogical(g.mustSlot(id), dest)
}

// SetSourceRect selects the texture region the sprite draws.
func (g *Graphics) SetSourceRect(id ID, src image.Rectangle) {
	g.sprites.At(g.mustSlot(id)).src = src
}

// SetSourceAndDest sets both rectangles at once.
func (g *Graphics) SetSourceAndDest(id ID, src image.Rectangle, dest Rect) {
	slot := g.mustSlot(id)
	g.sprites.At(slot).src = src
	g.setLogical(slot, dest)
}

// setLogical is the single write path for destination rectangles.
func (g *Graphics) setLogical(slot int, r Rect) {
	s := g.sprites.At(slot)
	s.logical = r
	s.device = g.camera.apply(r)
	g.camera.invalidate()
}

// --- Queries ---

// Dest returns the sprite's destination rectangle in world coordinates.
func (g *Graphics) Dest(id ID) Rect {
	return g.sprites.At(g.mustSlot(id)).logical
}

// DeviceDest returns the sprite's destination rectangle in screen pixels.
func (g *Graphics) DeviceDest(id ID) Rect {
	return g.sprites.At(g.mustSlot(id)).device
}

// SourceRect returns the texture region the sprite draws.
func (g *Graphics) SourceRect(id ID) image.Rectangle {
	return g.sprites.At(g.mustSlot(id)).src
}

// SpriteTexture returns the texture the sprite draws from.
func (g *Graphics) SpriteTexture(id ID) ID {
	return g.sprites.At(g.mustSlot(id)).texture
}

// HasSprite reports whether id refers to a live sprite.
func (g *Graphics) HasSprite(id ID) bool {
	return g.sprites.Has(id)
}

// Resolve returns the current draw slot of a sprite.
func (g *Graphics) Resolve(id ID) (int, error) {
	return g.sprites.Index(id)
}

// SpriteCount returns the number of live sprites, active or not.
func (g *Graphics) SpriteCount() int {
	return g.sprites.Len()
}

// TotalActive returns the number of sprites that are drawn.
func (g *Graphics) TotalActive() int {
	return g.active
}

// ActiveIDs returns the active sprites in draw order.
func (g *Graphics) ActiveIDs() []ID {
	ids := make([]ID, g.active)
	for i := range ids {
		ids[i] = g.sprites.IDAt(i)
	}
	return ids
}

// --- Visibility ---

// IsActive reports whether the sprite is drawn.
func (g *Graphics) IsActive(id ID) bool {
	return g.mustSlot(id) < g.active
}

// SetActive makes the sprite drawn, placing it after all other active
// sprites. Activating an active sprite does nothing.
func (g *Graphics) SetActive(id ID) {
	slot := g.mustSlot(id)
	if slot < g.active {
		return
	}
	g.sprites.Swap(slot, g.active)
	g.active++
	g.camera.invalidate()
}

// SetInactive hides the sprite. The last active sprite takes its draw slot.
// Deactivating a hidden sprite does nothing.
func (g *Graphics) SetInactive(id ID) {
	slot := g.mustSlot(id)
	if slot >= g.active {
		return
	}
	g.sprites.Swap(slot, g.active-1)
	g.active--
	g.camera.invalidate()
}

// --- Deletion ---

// DeleteSprite removes a sprite from either partition. Active sprites keep
// their relative draw order. If the sprite owns its texture (text sprites)
// the texture is released too.
func (g *Graphics) DeleteSprite(id ID) {
	g.mustSlot(id)
	g.deleteSprite(id, true)
}

// DeleteSpriteAndTexture deletes the sprite's texture, which in turn deletes
// the sprite and every other sprite sharing that texture.
func (g *Graphics) DeleteSpriteAndTexture(id ID) {
	g.DeleteTexture(g.SpriteTexture(id))
}

func (g *Graphics) deleteSprite(id ID, releaseOwned bool) {
	slot, err := g.sprites.Index(id)
	if err != nil {
		return
	}
	s := g.sprites.At(slot)
	tex, owns := s.texture, s.ownsTexture

	if slot < g.active {
		// Shift out of the active range so the swap-remove below pulls an
		// inactive sprite into the freed slot.
		g.sprites.Move(slot, g.active-1)
		g.active--
	}
	_ = g.sprites.Remove(id)

	if t, err := g.textures.Get(tex); err == nil {
		delete(t.users, id)
		if owns && releaseOwned {
			g.DeleteTexture(tex)
		}
	}
	g.camera.invalidate()
}

// --- Ordering ---

// ReorderAfter moves id so it is drawn directly after after. The relative
// order of every other sprite is preserved. Both sprites must be in the same
// partition.
func (g *Graphics) ReorderAfter(id, after ID) {
	a := g.mustSlot(id)
	b := g.mustSlot(after)
	if a == b {
		return
	}
	if (a < g.active) != (b < g.active) {
		panic("lemonade: ReorderAfter across the active partition")
	}
	if a < b {
		g.sprites.Move(a, b)
	} else {
		g.sprites.Move(a, b+1)
	}
}

// --- Layout helpers ---
//
// These work in world coordinates against the area the camera currently
// shows, so they centre on the screen regardless of pan and zoom.

// CenterOnScreen centres the sprite on the visible area.
func (g *Graphics) CenterOnScreen(id ID) {
	g.CenterOnScreenWithOffset(id, 0, 0)
}

// CenterOnScreenWithOffset centres the sprite then shifts it by (dx, dy).
func (g *Graphics) CenterOnScreenWithOffset(id ID, dx, dy float64) {
	slot := g.mustSlot(id)
	vb := g.camera.VisibleBounds()
	r := g.sprites.At(slot).logical
	r.X = vb.X + vb.Width/2 - r.Width/2 + dx
	r.Y = vb.Y + vb.Height/2 - r.Height/2 + dy
	g.setLogical(slot, r)
}

// CenterOnScreenX centres the sprite horizontally, keeping its Y.
func (g *Graphics) CenterOnScreenX(id ID) {
	slot := g.mustSlot(id)
	vb := g.camera.VisibleBounds()
	r := g.sprites.At(slot).logical
	r.X = vb.X + vb.Width/2 - r.Width/2
	g.setLogical(slot, r)
}

// CenterOnScreenY centres the sprite vertically, keeping its X.
func (g *Graphics) CenterOnScreenY(id ID) {
	slot := g.mustSlot(id)
	vb := g.camera.VisibleBounds()
	r := g.sprites.At(slot).logical
	r.Y = vb.Y + vb.Height/2 - r.Height/2
	g.setLogical(slot, r)
}

// CenterInRect keeps the sprite's size and centres it inside zone.
func (g *Graphics) CenterInRect(id ID, zone Rect) {
	slot := g.mustSlot(id)
	r := g.sprites.At(slot).logical
	r.X = zone.X + (zone.Width-r.Width)/2
	r.Y = zone.Y + (zone.Height-r.Height)/2
	g.setLogical(slot, r)
}

// CenterInRectKeepAspect scales the sprite to the largest size that fits
// zone with the aspect ratio of its source region, then centres it.
func (g *Graphics) CenterInRectKeepAspect(id ID, zone Rect) {
	slot := g.mustSlot(id)
	src := g.sprites.At(slot).src
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw <= 0 || sh <= 0 || zone.Width <= 0 || zone.Height <= 0 {
		return
	}
	scale := min(zone.Width/sw, zone.Height/sh)
	w, h := sw*scale, sh*scale
	g.setLogical(slot, Rect{
		X:      zone.X + (zone.Width-w)/2,
		Y:      zone.Y + (zone.Height-h)/2,
		Width:  w,
		Height: h,
	})
}

// ResizeToScreen fits a full-texture sprite to the visible height keeping
// the texture's aspect ratio, centred horizontally. When the result is wider
// than the screen the source region is cropped evenly on both sides.
func (g *Graphics) ResizeToScreen(id ID) {
	slot := g.mustSlot(id)
	s := g.sprites.At(slot)
	t := g.mustTexture(s.texture)
	vb := g.camera.VisibleBounds()
	if t.w == 0 || t.h == 0 || vb.Height <= 0 {
		return
	}

	h := vb.Height
	w := h * float64(t.w) / float64(t.h)
	src := image.Rect(0, 0, t.w, t.h)
	if w > vb.Width {
		cropW := max(int(float64(t.w)*vb.Width/w), 1)
		x0 := (t.w - cropW) / 2
		src = image.Rect(x0, 0, x0+cropW, t.h)
		w = vb.Width
	}
	s.src = src
	g.setLogical(slot, Rect{X: vb.X + (vb.Width-w)/2, Y: vb.Y, Width: w, Height: h})
}

// --- Internals ---

func (g *Graphics) mustSlot(id ID) int {
	slot, err := g.sprites.Index(id)
	if err != nil {
		panic(fmt.Sprintf("lemonade: %v", err))
	}
	return slot
}

func (g *Graphics) mustTextureSlot(id ID) int {
	slot, err := g.textures.Index(id)
	if err != nil {
		panic(fmt.Sprintf("lemonade: %v", err))
	}
	return slot
}
