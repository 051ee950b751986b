package lemonade

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadScript(t *testing.T) {
	r, err := LoadScript([]byte(`
steps:
  - {action: screenshot, label: initial}
  - {action: click, x: 100, y: 200}
  - {action: key, key: Enter}
  - {action: wait, steps: 3}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(r.steps))
	}
	if r.steps[1].X != 100 || r.steps[1].Y != 200 || r.steps[3].Steps != 3 {
		t.Errorf("steps = %+v", r.steps)
	}
}

func TestLoadScriptJSON(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": [{"action": "quit"}]}`)); err != nil {
		t.Error(err)
	}
}

func TestLoadScriptInvalid(t *testing.T) {
	for _, data := range []string{
		`steps: [`,
		`steps: []`,
		`steps: [{action: dance}]`,
		`steps: [{action: key, key: NotAKey}]`,
	} {
		if _, err := LoadScript([]byte(data)); err == nil {
			t.Errorf("LoadScript(%q) succeeded", data)
		}
	}
}

func TestScriptDrivesEngine(t *testing.T) {
	e := newTestEngine(t, &StaticInput{})
	e.Director.Register(SceneGame, &countScene{})
	_ = e.Director.Start(e, SceneGame)

	r, err := LoadScript([]byte(`
steps:
  - {action: key, key: F3}
  - {action: wait, steps: 2}
  - {action: quit}
`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetScript(r)

	sawPress := false
	for i := 0; i < 20; i++ {
		running, err := e.Step()
		if err != nil {
			t.Fatal(err)
		}
		if e.Input.KeyPressed(ebiten.KeyF3) {
			sawPress = true
		}
		if !running {
			break
		}
	}
	if !sawPress {
		t.Error("scripted key never pressed")
	}
	if !r.Done() {
		t.Error("script not done")
	}
	if !e.Graphics.Debug() {
		t.Error("F3 toggle not applied")
	}
}
