package game

import (
	"time"

	"github.com/phanxgames/lemonade"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ShopState is where a customer is in its visit.
type ShopState uint8

const (
	ShopWalkingIn ShopState = iota
	ShopBuying
	ShopLeaving
	ShopDone
)

func (s ShopState) String() string {
	switch s {
	case ShopWalkingIn:
		return "walking-in"
	case ShopBuying:
		return "buying"
	case ShopLeaving:
		return "leaving"
	case ShopDone:
		return "done"
	}
	return "unknown"
}

// Body links an entity to the sprite that draws it.
type Body struct {
	Sprite lemonade.ID
}

// Walker follows a path one tile per step.
type Walker struct {
	Path []Cell
	Next int // index into Path of the tile being walked to
	step *lemonade.TweenGroup
}

// Arrived reports whether the walker reached the end of its path.
func (w *Walker) Arrived() bool {
	return w.step == nil && w.Next >= len(w.Path)
}

// Shopper drives a customer from a spawn to a stand and out again.
type Shopper struct {
	State ShopState
	Timer time.Duration
	Stand Cell
	Exit  Cell
}

// Anim cycles the walk frames.
type Anim struct {
	Frame   int
	Elapsed time.Duration
}

var (
	BodyComponent    = donburi.NewComponentType[Body]()
	WalkerComponent  = donburi.NewComponentType[Walker]()
	ShopperComponent = donburi.NewComponentType[Shopper]()
	AnimComponent    = donburi.NewComponentType[Anim]()
)

// Sale is published when a customer buys at a stand.
type Sale struct {
	Customer donburi.Entity
	Stand    Cell
	Price    int
}

// SaleEvent is the donburi event type for sales. Subscribers run during
// Simulation.Update, after the systems.
var SaleEvent = events.NewEventType[Sale]()
