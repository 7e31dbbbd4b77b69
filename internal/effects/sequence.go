package effects

import (
	"time"

	"libdb.so/ledstrip/led"
)

// Step is one effect of a Sequence and how long it plays.
type Step struct {
	Effect   Effect
	Duration time.Duration
}

// Sequence plays effects one after another.
type Sequence struct {
	Steps []Step
	// Loop restarts the sequence after the last step.
	Loop bool
}

var _ Effect = Sequence{}

// Length returns the total duration of the sequence.
func (s Sequence) Length() time.Duration {
	var total time.Duration
	for _, step := range s.Steps {
		total += step.Duration
	}
	return total
}

// Frame implements Effect. A sequence that does not loop finishes after its
// last step, drawing that step's final frame.
func (s Sequence) Frame(leds led.LEDs, elapsed time.Duration) bool {
	if len(s.Steps) == 0 {
		return true
	}

	total := s.Length()
	if s.Loop && total > 0 {
		elapsed %= total
	}

	for _, step := range s.Steps {
		if elapsed < step.Duration {
			step.Effect.Frame(leds, elapsed)
			return false
		}
		elapsed -= step.Duration
	}

	last := s.Steps[len(s.Steps)-1]
	last.Effect.Frame(leds, last.Duration)
	return true
}

// Demo is the startup demo: red, green and blue for a second each.
func Demo() Sequence {
	return Sequence{
		Steps: []Step{
			{Effect: Solid{Color: led.RGBOf(255, 0, 0)}, Duration: time.Second},
			{Effect: Solid{Color: led.RGBOf(0, 255, 0)}, Duration: time.Second},
			{Effect: Solid{Color: led.RGBOf(0, 0, 255)}, Duration: time.Second},
		},
	}
}
