package lemonade

import (
	"fmt"

	"go.uber.org/zap"
)

// SceneID names a top-level game state.
type SceneID uint8

const (
	SceneNone          SceneID = iota // stay in the current scene
	SceneMainMenu                     // title screen
	SceneLevelSelector                // level picker overlay on the title screen
	SceneGame                         // running level
	SceneQuit                         // leave the loop
)

var sceneNames = [...]string{"none", "main-menu", "level-selector", "game", "quit"}

func (id SceneID) String() string {
	if int(id) < len(sceneNames) {
		return sceneNames[id]
	}
	return fmt.Sprintf("scene(%d)", uint8(id))
}

// Scene is one state of the director's state machine.
type Scene interface {
	// Enter runs when the scene becomes current. prev is the scene being
	// left, or SceneNone at start-up.
	Enter(e *Engine, prev SceneID) error
	// Update runs once per logic step and returns the next scene, or
	// SceneNone to stay.
	Update(e *Engine) (SceneID, error)
	// Exit runs before the next scene's Enter.
	Exit(e *Engine, next SceneID)
}

// Director owns the registered scenes and switches between them.
type Director struct {
	scenes  map[SceneID]Scene
	current SceneID
	log     *zap.Logger
}

// NewDirector creates a director with no scenes.
func NewDirector(log *zap.Logger) *Director {
	if log == nil {
		log = zap.NewNop()
	}
	return &Director{scenes: make(map[SceneID]Scene), log: log}
}

// Register binds a scene to an ID, replacing any previous binding.
func (d *Director) Register(id SceneID, s Scene) {
	if id == SceneNone || id == SceneQuit {
		panic(fmt.Sprintf("lemonade: cannot register scene %v", id))
	}
	d.scenes[id] = s
}

// Current returns the active scene ID.
func (d *Director) Current() SceneID {
	return d.current
}

// Start enters the first scene.
func (d *Director) Start(e *Engine, id SceneID) error {
	s, ok := d.scenes[id]
	if !ok {
		return fmt.Errorf("lemonade: scene %v not registered", id)
	}
	d.current = id
	d.log.Info("scene start", zap.Stringer("scene", id))
	return s.Enter(e, SceneNone)
}

// Update steps the current scene and performs any transition it asks for.
// It returns false once SceneQuit is requested.
func (d *Director) Update(e *Engine) (bool, error) {
	s, ok := d.scenes[d.current]
	if !ok {
		return false, fmt.Errorf("lemonade: no current scene")
	}
	next, err := s.Update(e)
	if err != nil {
		return false, fmt.Errorf("scene %v: %w", d.current, err)
	}
	if next == SceneNone || next == d.current {
		return true, nil
	}
	return d.switchTo(e, s, next)
}

func (d *Director) switchTo(e *Engine, from Scene, next SceneID) (bool, error) {
	prev := d.current
	from.Exit(e, next)
	if next == SceneQuit {
		d.log.Info("scene quit", zap.Stringer("from", prev))
		d.current = SceneQuit
		return false, nil
	}
	to, ok := d.scenes[next]
	if !ok {
		return false, fmt.Errorf("lemonade: scene %v not registered", next)
	}
	d.log.Info("scene change", zap.Stringer("from", prev), zap.Stringer("to", next))
	d.current = next
	if err := to.Enter(e, prev); err != nil {
		return false, fmt.Errorf("enter scene %v: %w", next, err)
	}
	return true, nil
}
