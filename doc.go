// Package lemonade is the 2D engine behind Lemonade 5000, built on
// [Ebitengine].
//
// # Sprites and textures
//
// [Graphics] owns two registries addressed by stable [ID] handles. Textures
// are images (loaded files with magenta keyed out, 1x1 solid colours or
// rendered text). Sprites draw a source region of a texture into a
// destination rectangle:
//
//	g := lemonade.NewGraphics(lemonade.GraphicsConfig{ScreenWidth: 1280, ScreenHeight: 720})
//	tex, err := g.LoadTexture("assets/tiles.png")
//	// ...
//	id, err := g.CreateTilesetSprite(tex, image.Rect(0, 0, 32, 32),
//		lemonade.Rect{X: 64, Y: 64, Width: 32, Height: 32})
//
// Sprites are stored densely. The first [Graphics.TotalActive] of them are
// drawn, in order, by [Graphics.Render]; the rest are hidden. Draw order
// changes only through [Graphics.ReorderAfter] and activation toggles.
// Deleting a texture deletes every sprite using it.
//
// # Camera
//
// Destination rectangles are given in world coordinates. The [Camera] maps
// them to the screen with a pan and a zoom; [Camera.Pan] keeps the active
// sprites on screen and [Camera.CenterOnContent] centres them.
//
// # Engine
//
// [Engine] wires graphics, input, widgets and a scene [Director] behind a
// fixed-step [Loop] and implements [ebiten.Game]. Configuration comes from a
// TOML file ([LoadConfig]) and logging goes through zap ([NewLogger]).
//
// [Ebitengine]: https://ebitengine.org
package lemonade
