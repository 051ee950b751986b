package lemonade

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	Key    string `yaml:"key,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	Steps  int    `yaml:"steps,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script replays injected input, waits and screenshots across logic steps,
// for demos and automated runs. Attach it with Engine.SetScript.
//
//	steps:
//	  - {action: key, key: Enter}
//	  - {action: wait, steps: 30}
//	  - {action: click, x: 640, y: 360}
//	  - {action: screenshot, label: level}
//	  - {action: quit}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML (or JSON) input script. Key names are those of
// ebiten.Key, e.g. "Enter", "ArrowDown", "Escape".
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "move", "wait", "screenshot", "quit":
		case "key":
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (r *Script) Done() bool {
	return r.done
}

// step runs before the engine polls input.
func (r *Script) step(e *Engine) {
	if r.done {
		return
	}
	in := e.Input
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "click":
		in.InjectClick(st.X, st.Y)
	case "move":
		in.InjectMove(st.X, st.Y)
	case "key":
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(st.Key)); err == nil {
			in.InjectKeyTap(k)
		}
	case "wait":
		if st.Steps > 0 {
			r.waitCount = st.Steps - 1
		}
	case "quit":
		e.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}
