package lemonade

import "github.com/hajimehoshi/ebiten/v2"

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticKey
)

// syntheticEvent is one injected state change. Screen coordinates are used,
// identical to real mouse input.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    int
	button  MouseButton
	key     ebiten.Key
	pressed bool
}

// InjectPress queues a left button press at the given screen coordinates.
// Each queued event is consumed by one Poll.
func (in *Input) InjectPress(x, y int) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: syntheticPointer, x: x, y: y, button: MouseButtonLeft, pressed: true,
	})
}

// InjectMove queues a cursor move keeping the injected buttons as they are.
func (in *Input) InjectMove(x, y int) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: syntheticPointer, x: x, y: y, button: MouseButtonLeft,
		pressed: in.injButtons&MouseButtonLeft.mask() != 0,
	})
}

// InjectRelease queues a left button release at the given screen coordinates.
func (in *Input) InjectRelease(x, y int) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{
		kind: syntheticPointer, x: x, y: y, button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two polls.
func (in *Input) InjectClick(x, y int) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectKeyDown queues a key press. The key stays held until InjectKeyUp.
func (in *Input) InjectKeyDown(k ebiten.Key) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{kind: syntheticKey, key: k, pressed: true})
}

// InjectKeyUp queues a key release.
func (in *Input) InjectKeyUp(k ebiten.Key) {
	in.injectQueue = append(in.injectQueue, syntheticEvent{kind: syntheticKey, key: k})
}

// InjectKeyTap queues a press and a release of k. Consumes two polls.
func (in *Input) InjectKeyTap(k ebiten.Key) {
	in.InjectKeyDown(k)
	in.InjectKeyUp(k)
}

// Pending returns the number of injected events not yet consumed.
func (in *Input) Pending() int {
	return len(in.injectQueue)
}

// popInjected applies at most one queued event to the injected state.
func (in *Input) popInjected() {
	if len(in.injectQueue) == 0 {
		return
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		in.injX, in.injY = evt.x, evt.y
		in.injPointer = true
		if evt.pressed {
			in.injButtons |= evt.button.mask()
		} else {
			in.injButtons &^= evt.button.mask()
		}
	case syntheticKey:
		if validKey(evt.key) {
			in.injKeys[evt.key] = evt.pressed
		}
	}
}

// StaticInput is an InputSource whose state is set directly. With the
// zero value nothing is pressed; combined with the Inject methods it runs
// the engine headless.
type StaticInput struct {
	Keys           []ebiten.Key
	X, Y           int
	Buttons        []MouseButton
	WheelX, WheelY float64
	Closing        bool
}

func (s *StaticInput) AppendPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return append(keys, s.Keys...)
}

func (s *StaticInput) CursorPosition() (int, int) { return s.X, s.Y }

func (s *StaticInput) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	for _, mb := range s.Buttons {
		if mb.ebiten() == b {
			return true
		}
	}
	return false
}

// Wheel returns the configured delta once, then zero.
func (s *StaticInput) Wheel() (float64, float64) {
	dx, dy := s.WheelX, s.WheelY
	s.WheelX, s.WheelY = 0, 0
	return dx, dy
}

func (s *StaticInput) CloseRequested() bool { return s.Closing }
