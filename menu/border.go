package menu

import "github.com/phanxgames/lemonade"

const borderWidth = 2

// border is a rectangle outline made of four thin sprites: left, bottom,
// right and top.
type border [4]lemonade.ID

func newBorder(g *lemonade.Graphics, tex lemonade.ID) (border, error) {
	var b border
	for i := range b {
		id, err := g.CreateInactiveSprite(tex)
		if err != nil {
			return b, err
		}
		b[i] = id
	}
	return b, nil
}

// place fits the outline to r.
func (b border) place(g *lemonade.Graphics, r lemonade.Rect) {
	g.SetDestRect(b[0], lemonade.Rect{X: r.X, Y: r.Y, Width: borderWidth, Height: r.Height})
	g.SetDestRect(b[1], lemonade.Rect{X: r.X, Y: r.Y + r.Height - borderWidth, Width: r.Width, Height: borderWidth})
	g.SetDestRect(b[2], lemonade.Rect{X: r.X + r.Width - borderWidth, Y: r.Y, Width: borderWidth, Height: r.Height})
	g.SetDestRect(b[3], lemonade.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: borderWidth})
}

func (b border) show(g *lemonade.Graphics) {
	for _, id := range b {
		g.SetActive(id)
	}
}

func (b border) hide(g *lemonade.Graphics) {
	for _, id := range b {
		g.SetInactive(id)
	}
}

func (b border) visible(g *lemonade.Graphics) bool {
	return g.IsActive(b[0])
}
