package lemonade

import (
	"fmt"
	"image/color"
)

// DefaultMaxWidgets is the widget capacity used when none is configured.
const DefaultMaxWidgets = 1000

// Units selects, per axis, whether a box value is pixels or a percentage
// (0-100) of the parent. X and Width are relative to the parent's width, Y
// and Height to the parent's height.
type Units uint8

const (
	PercentX Units = 1 << iota
	PercentY
	PercentWidth
	PercentHeight

	Pixels     Units = 0
	PercentAll       = PercentX | PercentY | PercentWidth | PercentHeight
)

// HAlign positions a widget horizontally inside its parent. With AlignRight
// the X value is the margin from the parent's right edge; with AlignCenter it
// is an offset from the centred position.
type HAlign uint8

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign is the vertical counterpart of HAlign.
type VAlign uint8

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// Fit controls how an attached sprite is placed in the widget box.
type Fit uint8

const (
	FitStretch Fit = iota // fill the box
	FitCenter             // keep the sprite's size, centre it
	FitAspect             // largest size with the source aspect ratio, centred
)

type widget struct {
	parent     ID
	x, y, w, h float64
	units      Units
	halign     HAlign
	valign     VAlign

	background ID // sprite over a solid texture, or NoID
	content    ID // attached sprite, or NoID
	fit        Fit

	hidden bool
	dest   Rect
	pass   uint32 // layout pass dest was computed in
}

// Widgets lays out nested boxes and keeps their sprites in place. Each
// widget owns an optional solid background sprite and may carry one attached
// sprite (text, image) that is positioned inside its box.
type Widgets struct {
	g     *Graphics
	elems *SlotMap[widget]
	root  Rect
	pass  uint32
}

// NewWidgets creates an empty widget table.
func NewWidgets(g *Graphics, capacity int) *Widgets {
	if capacity <= 0 {
		capacity = DefaultMaxWidgets
	}
	return &Widgets{g: g, elems: NewSlotMap[widget]("widget", capacity)}
}

// Create adds a widget under parent. NoID parents it to the layout root.
// New widgets are visible and fill their parent.
func (ws *Widgets) Create(parent ID) ID {
	hidden := parent != NoID && ws.must(parent).hidden
	id, _ := ws.elems.Insert(widget{parent: parent, w: 100, h: 100, units: PercentAll, hidden: hidden})
	return id
}

// SetBox sets the widget's position and size.
func (ws *Widgets) SetBox(id ID, x, y, w, h float64, units Units) {
	e := ws.must(id)
	e.x, e.y, e.w, e.h = x, y, w, h
	e.units = units
}

// SetAlign sets the alignment inside the parent.
func (ws *Widgets) SetAlign(id ID, h HAlign, v VAlign) {
	e := ws.must(id)
	e.halign, e.valign = h, v
}

// SetBackground gives the widget a solid background, replacing any previous
// one. The background is drawn where the widget's sprites are created, so
// set it before attaching content.
func (ws *Widgets) SetBackground(id ID, c color.Color) error {
	e := ws.must(id)
	if e.background != NoID && ws.g.HasSprite(e.background) {
		ws.g.DeleteSpriteAndTexture(e.background)
	}
	tex := ws.g.CreateSolidTexture(c)
	var (
		sid ID
		err error
	)
	if e.hidden {
		sid, err = ws.g.CreateInactiveSprite(tex)
	} else {
		sid, err = ws.g.CreateFullTextureSprite(tex, e.dest)
	}
	if err != nil {
		return fmt.Errorf("widget background: %w", err)
	}
	ws.must(id).background = sid
	return nil
}

// Attach places sprite inside the widget's box on every Layout.
func (ws *Widgets) Attach(id, sprite ID, fit Fit) {
	e := ws.must(id)
	e.content = sprite
	e.fit = fit
	if e.hidden {
		ws.g.SetInactive(sprite)
	} else {
		ws.g.SetActive(sprite)
	}
}

// Content returns the attached sprite, or NoID.
func (ws *Widgets) Content(id ID) ID {
	return ws.must(id).content
}

// Background returns the background sprite, or NoID.
func (ws *Widgets) Background(id ID) ID {
	return ws.must(id).background
}

// Dest returns the box computed by the last Layout.
func (ws *Widgets) Dest(id ID) Rect {
	return ws.must(id).dest
}

// Visible reports whether the widget is shown.
func (ws *Widgets) Visible(id ID) bool {
	return !ws.must(id).hidden
}

// Show activates the sprites of the widget and all its descendants.
func (ws *Widgets) Show(id ID) {
	ws.setHidden(id, false)
}

// Hide deactivates the sprites of the widget and all its descendants.
func (ws *Widgets) Hide(id ID) {
	ws.setHidden(id, true)
}

func (ws *Widgets) setHidden(id ID, hidden bool) {
	for _, wid := range ws.subtree(id) {
		e := ws.must(wid)
		e.hidden = hidden
		for _, sid := range [2]ID{e.background, e.content} {
			if sid == NoID || !ws.g.HasSprite(sid) {
				continue
			}
			if hidden {
				ws.g.SetInactive(sid)
			} else {
				ws.g.SetActive(sid)
			}
		}
	}
}

// subtree returns id followed by its descendants, parents before children.
func (ws *Widgets) subtree(id ID) []ID {
	ws.must(id)
	out := []ID{id}
	for i := 0; i < len(out); i++ {
		for s := 0; s < ws.elems.Len(); s++ {
			if ws.elems.At(s).parent == out[i] {
				out = append(out, ws.elems.IDAt(s))
			}
		}
	}
	return out
}

// Delete removes the widget, its descendants and their backgrounds.
// Attached sprites stay with their owner.
func (ws *Widgets) Delete(id ID) {
	for _, wid := range ws.subtree(id) {
		e := ws.must(wid)
		if e.background != NoID && ws.g.HasSprite(e.background) {
			ws.g.DeleteSpriteAndTexture(e.background)
		}
		_ = ws.elems.Remove(wid)
	}
}

// Clear removes every widget. Background sprites that still exist are
// deleted.
func (ws *Widgets) Clear() {
	for i := 0; i < ws.elems.Len(); i++ {
		bg := ws.elems.At(i).background
		if bg != NoID && ws.g.HasSprite(bg) {
			ws.g.DeleteSpriteAndTexture(bg)
		}
	}
	ws.elems.Clear()
}

// Has reports whether id refers to a live widget.
func (ws *Widgets) Has(id ID) bool {
	return ws.elems.Has(id)
}

// Len returns the number of widgets.
func (ws *Widgets) Len() int {
	return ws.elems.Len()
}

// Layout resolves every box against root, parents first, and moves the
// background and attached sprites into place.
func (ws *Widgets) Layout(root Rect) {
	ws.root = root
	ws.pass++
	if ws.pass == 0 {
		ws.pass = 1
	}
	for s := 0; s < ws.elems.Len(); s++ {
		ws.resolve(s)
	}
	for s := 0; s < ws.elems.Len(); s++ {
		e := ws.elems.At(s)
		if e.background != NoID && ws.g.HasSprite(e.background) {
			ws.g.SetDestRect(e.background, e.dest)
		}
		if e.content == NoID || !ws.g.HasSprite(e.content) {
			continue
		}
		switch e.fit {
		case FitCenter:
			ws.g.CenterInRect(e.content, e.dest)
		case FitAspect:
			ws.g.CenterInRectKeepAspect(e.content, e.dest)
		default:
			ws.g.SetDestRect(e.content, e.dest)
		}
	}
}

func (ws *Widgets) resolve(slot int) Rect {
	e := ws.elems.At(slot)
	if e.pass == ws.pass {
		return e.dest
	}
	parent := ws.root
	if e.parent != NoID {
		if ps, err := ws.elems.Index(e.parent); err == nil {
			parent = ws.resolve(ps)
		}
	}
	e.dest = e.box(parent)
	e.pass = ws.pass
	return e.dest
}

// box computes the widget rectangle inside parent.
func (e *widget) box(parent Rect) Rect {
	x, y, w, h := e.x, e.y, e.w, e.h
	if e.units&PercentX != 0 {
		x = x / 100 * parent.Width
	}
	if e.units&PercentY != 0 {
		y = y / 100 * parent.Height
	}
	if e.units&PercentWidth != 0 {
		w = w / 100 * parent.Width
	}
	if e.units&PercentHeight != 0 {
		h = h / 100 * parent.Height
	}

	r := Rect{Width: w, Height: h}
	switch e.halign {
	case AlignCenter:
		r.X = parent.X + (parent.Width-w)/2 + x
	case AlignRight:
		r.X = parent.X + parent.Width - w - x
	default:
		r.X = parent.X + x
	}
	switch e.valign {
	case AlignMiddle:
		r.Y = parent.Y + (parent.Height-h)/2 + y
	case AlignBottom:
		r.Y = parent.Y + parent.Height - h - y
	default:
		r.Y = parent.Y + y
	}
	return r
}

func (ws *Widgets) must(id ID) *widget {
	e, err := ws.elems.Get(id)
	if err != nil {
		panic(fmt.Sprintf("lemonade: %v", err))
	}
	return e
}
