package lemonade

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps world coordinates to screen pixels:
//
//	screen = (world - position) * zoom
//
// The position is the world point shown at the top-left of the viewport.
// Every change to position or zoom re-lays out all sprites, so a sprite's
// device rectangle always matches its world rectangle.
type Camera struct {
	g *Graphics

	x, y  float64
	zoom  float64
	viewW float64
	viewH float64

	bounds      Rect
	hasContent  bool
	boundsDirty bool

	scrollTween *scrollAnim
}

func newCamera(g *Graphics) *Camera {
	return &Camera{g: g, zoom: 1, boundsDirty: true}
}

// Position returns the world point at the top-left of the viewport.
func (c *Camera) Position() (x, y float64) {
	return c.x, c.y
}

// Zoom returns the scale factor (1 = no zoom, >1 = zoom in).
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetViewport sets the screen size in pixels. Device rectangles do not depend
// on it; it only affects clamping, centring and VisibleBounds.
func (c *Camera) SetViewport(w, h float64) {
	c.viewW, c.viewH = w, h
}

// Viewport returns the screen size in pixels.
func (c *Camera) Viewport() (w, h float64) {
	return c.viewW, c.viewH
}

// Reset restores identity pan and zoom and cancels any scroll animation.
func (c *Camera) Reset() {
	c.x, c.y, c.zoom = 0, 0, 1
	c.scrollTween = nil
	c.relayout()
}

// Pan moves the camera by (dx, dy) world units.
//
// With content on screen each axis is clamped: content larger than the
// viewport keeps covering it and smaller content stays fully visible. A
// delta that crosses the limit is shortened to end on it, so the content
// edge lines up with the viewport edge. A camera already out of range can
// only move back toward it.
func (c *Camera) Pan(dx, dy float64) {
	c.refreshBounds()
	if c.hasContent {
		dx = clampPan(c.x, dx, c.bounds.X, c.bounds.Width, c.viewW/c.zoom)
		dy = clampPan(c.y, dy, c.bounds.Y, c.bounds.Height, c.viewH/c.zoom)
	}
	if dx == 0 && dy == 0 {
		return
	}
	c.x += dx
	c.y += dy
	c.relayout()
}

// clampPan limits a pan delta along one axis. pos is the camera coordinate,
// lo and extent describe the content and view is the viewport extent in
// world units.
func clampPan(pos, d, lo, extent, view float64) float64 {
	far := lo + extent - view
	minPos, maxPos := math.Min(lo, far), math.Max(lo, far)
	switch {
	case d > 0:
		limit := math.Max(maxPos, pos)
		if pos+d > limit {
			return limit - pos
		}
	case d < 0:
		limit := math.Min(minPos, pos)
		if pos+d < limit {
			return limit - pos
		}
	}
	return d
}

// ZoomBy multiplies the zoom by factor, keeping the camera position. Factors
// that are not finite and positive are ignored.
func (c *Camera) ZoomBy(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	c.zoom *= factor
	c.relayout()
}

// ZoomAt multiplies the zoom by factor keeping the world point under screen
// position (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	c.zoom *= factor
	c.x = wx - sx/c.zoom
	c.y = wy - sy/c.zoom
	c.relayout()
}

// CenterOnContent moves the camera so the viewport centre matches the centre
// of the active sprites. Does nothing when no sprite is active.
func (c *Camera) CenterOnContent() {
	c.refreshBounds()
	if !c.hasContent {
		return
	}
	c.x, c.y = c.centeredOn(c.bounds.Center())
	c.relayout()
}

// centeredOn returns the camera position that puts world point (wx, wy) at
// the viewport centre.
func (c *Camera) centeredOn(wx, wy float64) (x, y float64) {
	return wx - c.viewW/(2*c.zoom), wy - c.viewH/(2*c.zoom)
}

// Bounds returns the world bounding box of all active sprites, or the zero
// Rect when none is active.
func (c *Camera) Bounds() Rect {
	c.refreshBounds()
	return c.bounds
}

// ScrollTo animates the camera so world point (x, y) ends up at the viewport
// centre after duration seconds. Advance it with Update.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	tx, ty := c.centeredOn(x, y)
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.x), float32(tx), duration, easeFn),
		tweenY: gween.New(float32(c.y), float32(ty), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances the scroll animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	st := c.scrollTween
	if !st.doneX {
		val, done := st.tweenX.Update(dt)
		c.x = float64(val)
		st.doneX = done
	}
	if !st.doneY {
		val, done := st.tweenY.Update(dt)
		c.y = float64(val)
		st.doneY = done
	}
	if st.doneX && st.doneY {
		c.scrollTween = nil
	}
	c.relayout()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return (wx - c.x) * c.zoom, (wy - c.y) * c.zoom
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx/c.zoom + c.x, sy/c.zoom + c.y
}

// VisibleBounds returns the world rectangle currently covered by the
// viewport.
func (c *Camera) VisibleBounds() Rect {
	return Rect{X: c.x, Y: c.y, Width: c.viewW / c.zoom, Height: c.viewH / c.zoom}
}

// apply maps a world rectangle to screen pixels.
func (c *Camera) apply(r Rect) Rect {
	return Rect{
		X:      (r.X - c.x) * c.zoom,
		Y:      (r.Y - c.y) * c.zoom,
		Width:  r.Width * c.zoom,
		Height: r.Height * c.zoom,
	}
}

// invalidate marks the content bounds stale.
func (c *Camera) invalidate() {
	c.boundsDirty = true
}

func (c *Camera) refreshBounds() {
	if !c.boundsDirty {
		return
	}
	c.boundsDirty = false
	g := c.g
	if g.active == 0 {
		c.bounds, c.hasContent = Rect{}, false
		return
	}
	b := g.sprites.At(0).logical
	for i := 1; i < g.active; i++ {
		b = b.Union(g.sprites.At(i).logical)
	}
	c.bounds, c.hasContent = b, true
}

// relayout recomputes every sprite's device rectangle.
func (c *Camera) relayout() {
	sprites := c.g.sprites.Values()
	for i := range sprites {
		sprites[i].device = c.apply(sprites[i].logical)
	}
}
