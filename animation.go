package lemonade

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tweenTarget uint8

const (
	tweenPosition tweenTarget = iota
	tweenRect
)

// TweenGroup animates a sprite's destination rectangle. Create one via
// TweenPosition or TweenRect and call Update(dt) each step. If the sprite is
// deleted the group stops immediately.
//
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	g      *Graphics
	target ID
	what   tweenTarget
	tweens [4]*gween.Tween
	count  int
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// sprite.
func (tg *TweenGroup) Update(dt float32) {
	if tg.Done {
		return
	}
	if !tg.g.HasSprite(tg.target) {
		tg.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < tg.count; i++ {
		val, finished := tg.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	tg.Done = allDone

	switch tg.what {
	case tweenPosition:
		tg.g.SetPosition(tg.target, vals[0], vals[1])
	case tweenRect:
		tg.g.SetDestRect(tg.target, Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]})
	}
}

// Target returns the animated sprite.
func (tg *TweenGroup) Target() ID {
	return tg.target
}

// TweenPosition animates the sprite's top-left corner to (toX, toY) over
// duration seconds.
func TweenPosition(g *Graphics, id ID, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := g.Dest(id)
	tg := &TweenGroup{g: g, target: id, what: tweenPosition, count: 2}
	tg.tweens[0] = gween.New(float32(from.X), float32(toX), duration, fn)
	tg.tweens[1] = gween.New(float32(from.Y), float32(toY), duration, fn)
	return tg
}

// TweenRect animates the whole destination rectangle to to.
func TweenRect(g *Graphics, id ID, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := g.Dest(id)
	tg := &TweenGroup{g: g, target: id, what: tweenRect, count: 4}
	tg.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	tg.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	tg.tweens[2] = gween.New(float32(from.Width), float32(to.Width), duration, fn)
	tg.tweens[3] = gween.New(float32(from.Height), float32(to.Height), duration, fn)
	return tg
}
