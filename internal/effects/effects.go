// Package effects contains LED animations. Effects draw logical RGB colors;
// mapping into the strip's channel order happens when the frame is shown.
package effects

import (
	"time"

	"libdb.so/ledstrip/led"
)

// Effect is the interface for types that draw frames of an animation.
type Effect interface {
	// Frame draws the frame at the given time since the effect started into
	// leds. It returns true once the effect has finished; a finished effect
	// keeps drawing its last frame.
	Frame(leds led.LEDs, elapsed time.Duration) (done bool)
}

// Solid fills the LEDs with one color.
type Solid struct {
	Color led.RGBColor
}

var _ Effect = Solid{}

// Frame implements Effect.
func (s Solid) Frame(leds led.LEDs, elapsed time.Duration) bool {
	leds.Fill(s.Color)
	return true
}

// DefaultRainbowStep is the step duration of a Rainbow without one.
const DefaultRainbowStep = 20 * time.Millisecond

// Rainbow spreads the whole color wheel over the LEDs and rotates it one
// wheel position per step.
type Rainbow struct {
	Step time.Duration
}

var _ Effect = Rainbow{}

// Frame implements Effect. It never finishes.
func (r Rainbow) Frame(leds led.LEDs, elapsed time.Duration) bool {
	step := r.Step
	if step <= 0 {
		step = DefaultRainbowStep
	}

	offset := int(elapsed / step)
	for i := range leds {
		leds[i] = led.Wheel((i*256/len(leds) + offset) & 0xFF)
	}
	return false
}

// DefaultWipeStep is the step duration of a Wipe without one.
const DefaultWipeStep = 50 * time.Millisecond

// Wipe lights the LEDs with a color one after another.
type Wipe struct {
	Color led.RGBColor
	Step  time.Duration
}

var _ Effect = Wipe{}

// Frame implements Effect. It finishes once every LED is lit.
func (w Wipe) Frame(leds led.LEDs, elapsed time.Duration) bool {
	step := w.Step
	if step <= 0 {
		step = DefaultWipeStep
	}

	lit := min(int(elapsed/step)+1, len(leds))
	leds.SetRange(0, lit, w.Color)
	leds.SetRange(lit, len(leds), led.RGBColor{})
	return lit == len(leds)
}

// Fade blends from one color to another in CIE L*u*v* space.
type Fade struct {
	From     led.RGBColor
	To       led.RGBColor
	Duration time.Duration
	// Bounce fades back and forth forever.
	Bounce bool
}

var _ Effect = Fade{}

// Frame implements Effect.
func (f Fade) Frame(leds led.LEDs, elapsed time.Duration) bool {
	if f.Duration <= 0 {
		leds.Fill(f.To)
		return true
	}

	completion := elapsed.Seconds() / f.Duration.Seconds()
	done := false

	if f.Bounce {
		// Triangle wave: 0 -> 1 -> 0 every two durations.
		cycle := completion - 2*float64(int(completion/2))
		if cycle > 1 {
			cycle = 2 - cycle
		}
		completion = cycle
	} else if completion >= 1 {
		completion = 1
		done = true
	}

	from := f.From.Colorful()
	to := f.To.Colorful()
	leds.Fill(led.FromColorful(from.BlendLuv(to, completion)))
	return done
}
