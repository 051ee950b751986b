package lemonade

import "time"

// Loop runs fixed-size logic steps against wall-clock time.
//
// Each frame adds the elapsed time to a lag accumulator and runs one step per
// Step of lag, at most MaxCatchUp times. When the cap is hit the remaining
// lag is dropped down to less than one step so a slow frame cannot snowball.
type Loop struct {
	Step       time.Duration
	MaxCatchUp int

	lag time.Duration
}

// NewLoop creates a loop with the given step and catch-up cap.
func NewLoop(step time.Duration, maxCatchUp int) *Loop {
	if step <= 0 {
		panic("lemonade: loop step must be positive")
	}
	if maxCatchUp <= 0 {
		maxCatchUp = 1
	}
	return &Loop{Step: step, MaxCatchUp: maxCatchUp}
}

// Advance adds elapsed to the accumulator and calls step for every whole
// Step, up to MaxCatchUp. It stops early when step returns false and reports
// how many steps ran and whether the loop should keep going.
func (l *Loop) Advance(elapsed time.Duration, step func() bool) (runs int, running bool) {
	if elapsed > 0 {
		l.lag += elapsed
	}
	for l.lag >= l.Step && runs < l.MaxCatchUp {
		l.lag -= l.Step
		runs++
		if !step() {
			return runs, false
		}
	}
	if l.lag >= l.Step {
		l.lag %= l.Step
	}
	return runs, true
}

// Lag returns the time not yet consumed by a step.
func (l *Loop) Lag() time.Duration {
	return l.lag
}

// Seconds returns the step length in seconds, for tween updates.
func (l *Loop) Seconds() float32 {
	return float32(l.Step.Seconds())
}
