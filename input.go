package lemonade

import "github.com/hajimehoshi/ebiten/v2"

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	numMouseButtons
)

func (b MouseButton) ebiten() ebiten.MouseButton {
	switch b {
	case MouseButtonRight:
		return ebiten.MouseButtonRight
	case MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

func (b MouseButton) mask() uint8 { return 1 << b }

// InputSource is the raw device state Input polls. The default source reads
// Ebitengine; tests substitute their own.
type InputSource interface {
	AppendPressedKeys(keys []ebiten.Key) []ebiten.Key
	CursorPosition() (x, y int)
	IsMouseButtonPressed(b ebiten.MouseButton) bool
	// Wheel returns the scroll delta since the previous call.
	Wheel() (dx, dy float64)
	CloseRequested() bool
}

// EbitenInput returns the InputSource backed by Ebitengine.
func EbitenInput() InputSource {
	return &ebitenSource{lastTick: -1}
}

type ebitenSource struct {
	lastTick int64
}

func (s *ebitenSource) AppendPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return ebiten.AppendPressedKeys(keys)
}

func (s *ebitenSource) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (s *ebitenSource) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

// Wheel reports the tick's wheel delta once; several logic steps may run in
// one tick.
func (s *ebitenSource) Wheel() (float64, float64) {
	tick := ebiten.Tick()
	if tick == s.lastTick {
		return 0, 0
	}
	s.lastTick = tick
	return ebiten.Wheel()
}

func (s *ebitenSource) CloseRequested() bool { return ebiten.IsWindowBeingClosed() }

const numKeys = int(ebiten.KeyMax) + 1

// Input tracks held keys and buttons and derives per-step edges. Call Poll
// once per logic step; a pressed or released edge is visible for exactly
// that step.
type Input struct {
	src InputSource

	held     [numKeys]bool
	pressed  [numKeys]bool
	released [numKeys]bool
	keyBuf   []ebiten.Key

	mouseHeld     uint8
	mousePressed  uint8
	mouseReleased uint8
	x, y          int
	realX, realY  int
	wheelX        float64
	wheelY        float64
	closing       bool

	// Injected state, see inject.go.
	injectQueue []syntheticEvent
	injKeys     [numKeys]bool
	injButtons  uint8
	injX, injY  int
	injPointer  bool
}

// NewInput creates an Input reading src. A nil src reads Ebitengine.
func NewInput(src InputSource) *Input {
	if src == nil {
		src = EbitenInput()
	}
	return &Input{src: src, keyBuf: make([]ebiten.Key, 0, 16)}
}

// Poll samples the source and updates edges.
func (in *Input) Poll() {
	in.popInjected()

	var now [numKeys]bool
	in.keyBuf = in.src.AppendPressedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		if k >= 0 && int(k) < numKeys {
			now[k] = true
		}
	}
	for k := range now {
		now[k] = now[k] || in.injKeys[k]
		in.pressed[k] = now[k] && !in.held[k]
		in.released[k] = !now[k] && in.held[k]
	}
	in.held = now

	rx, ry := in.src.CursorPosition()
	if rx != in.realX || ry != in.realY {
		in.injPointer = false
		in.realX, in.realY = rx, ry
	}
	in.x, in.y = rx, ry
	if in.injPointer {
		in.x, in.y = in.injX, in.injY
	}

	buttons := in.injButtons
	for b := MouseButton(0); b < numMouseButtons; b++ {
		if in.src.IsMouseButtonPressed(b.ebiten()) {
			buttons |= b.mask()
		}
	}
	in.mousePressed = buttons &^ in.mouseHeld
	in.mouseReleased = in.mouseHeld &^ buttons
	in.mouseHeld = buttons

	in.wheelX, in.wheelY = in.src.Wheel()
	in.closing = in.src.CloseRequested()
}

// KeyDown reports whether k is held.
func (in *Input) KeyDown(k ebiten.Key) bool { return validKey(k) && in.held[k] }

// KeyPressed reports whether k went down this step.
func (in *Input) KeyPressed(k ebiten.Key) bool { return validKey(k) && in.pressed[k] }

// KeyReleased reports whether k went up this step.
func (in *Input) KeyReleased(k ebiten.Key) bool { return validKey(k) && in.released[k] }

func validKey(k ebiten.Key) bool { return k >= 0 && int(k) < numKeys }

// MousePosition returns the cursor in screen pixels.
func (in *Input) MousePosition() (x, y int) { return in.x, in.y }

// MouseDown reports whether b is held.
func (in *Input) MouseDown(b MouseButton) bool { return in.mouseHeld&b.mask() != 0 }

// MousePressed reports whether b went down this step.
func (in *Input) MousePressed(b MouseButton) bool { return in.mousePressed&b.mask() != 0 }

// MouseReleased reports whether b went up this step.
func (in *Input) MouseReleased(b MouseButton) bool { return in.mouseReleased&b.mask() != 0 }

// Wheel returns the scroll delta seen this step.
func (in *Input) Wheel() (dx, dy float64) { return in.wheelX, in.wheelY }

// CloseRequested reports whether the window close button was used.
func (in *Input) CloseRequested() bool { return in.closing }

// MouseOver reports whether the cursor lies inside zone (screen pixels,
// edges inclusive).
func (in *Input) MouseOver(zone Rect) bool {
	return zone.Contains(float64(in.x), float64(in.y))
}

// ZoneClicked reports whether b was released this step with the cursor
// inside zone.
func (in *Input) ZoneClicked(zone Rect, b MouseButton) bool {
	return in.MouseReleased(b) && in.MouseOver(zone)
}
