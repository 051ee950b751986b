// Package menu implements the title screen and the level selector.
package menu

import (
	"github.com/phanxgames/lemonade"
	"go.uber.org/zap"
)

var (
	textColor      = lemonade.ColorYellow
	greenTextColor = lemonade.ColorGreen
)

// fallback colours for missing image files
var (
	backgroundFallback = lemonade.RGB(0x88CCEE)
)

// Assets holds the textures shared by both menu scenes and the backdrop
// sprite they draw over.
type Assets struct {
	Background lemonade.ID
	OK         lemonade.ID
	Back       lemonade.ID
	Light      lemonade.ID
	Green      lemonade.ID

	backdrop lemonade.ID
}

// LoadAssets loads the menu textures named in the config. Missing images are
// replaced by solid colours or text so the menus stay usable.
func LoadAssets(e *lemonade.Engine) (*Assets, error) {
	g := e.Graphics
	paths := e.Config.Assets
	a := &Assets{
		Light: g.CreateSolidTexture(lemonade.ColorLight),
		Green: g.CreateSolidTexture(lemonade.ColorGreen),
	}

	var err error
	a.Background, err = g.LoadTexture(paths.Path(paths.Background))
	if err != nil {
		e.Log.Warn("menu background missing", zap.Error(err))
		a.Background = g.CreateSolidTexture(backgroundFallback)
	}
	if a.OK, err = loadOrText(e, paths.Path(paths.OKButton), "OK"); err != nil {
		return nil, err
	}
	if a.Back, err = loadOrText(e, paths.Path(paths.BackButton), "Back"); err != nil {
		return nil, err
	}
	return a, nil
}

func loadOrText(e *lemonade.Engine, path, label string) (lemonade.ID, error) {
	id, err := e.Graphics.LoadTexture(path)
	if err == nil {
		return id, nil
	}
	e.Log.Warn("menu button image missing", zap.String("label", label), zap.Error(err))
	return e.Graphics.CreateTextTexture(label, greenTextColor)
}

// Backdrop returns the full-screen background sprite, or NoID before the
// title screen has been built.
func (a *Assets) Backdrop() lemonade.ID {
	return a.backdrop
}
