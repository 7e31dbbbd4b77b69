// Package term previews a strip in the terminal, one colored cell per LED.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"libdb.so/ledstrip/led"
)

// Options configures the terminal preview.
type Options struct {
	// Count is the number of LEDs.
	Count int
	// Order is the strip's channel order. Native colors are unmapped with it
	// so the preview shows what the LEDs would.
	Order led.ChannelOrder
}

// Driver draws the strip onto a tcell screen.
type Driver struct {
	screen     tcell.Screen
	order      led.ChannelOrder
	pixels     led.LEDs
	brightness uint8
}

// Open takes over the terminal.
func Open(opts Options) (*Driver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize screen")
	}
	return NewWithScreen(screen, opts)
}

// NewWithScreen draws onto an already initialized screen. The driver takes
// ownership of the screen.
func NewWithScreen(screen tcell.Screen, opts Options) (*Driver, error) {
	if opts.Count < 1 {
		screen.Fini()
		return nil, errors.Errorf("invalid LED count %d", opts.Count)
	}

	screen.HideCursor()
	screen.Clear()

	return &Driver{
		screen:     screen,
		order:      opts.Order,
		pixels:     led.NewLEDs(opts.Count),
		brightness: 0xFF,
	}, nil
}

// NumPixels implements ledstrip.Driver.
func (d *Driver) NumPixels() int { return len(d.pixels) }

// SetPixel implements ledstrip.Driver.
func (d *Driver) SetPixel(i int, c led.Color) { d.pixels[i] = c.Unpack() }

// SetBrightness implements ledstrip.Driver.
func (d *Driver) SetBrightness(level uint8) { d.brightness = level }

// Show implements ledstrip.Driver. LEDs wrap onto the next row when the
// terminal is too narrow; each LED is two cells wide.
func (d *Driver) Show() error {
	width, _ := d.screen.Size()
	perRow := max(width/2, 1)

	for i, native := range d.pixels {
		c := d.order.Unmap(native.Scale(d.brightness))
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2])))

		x := 2 * (i % perRow)
		y := i / perRow
		d.screen.SetContent(x, y, ' ', nil, style)
		d.screen.SetContent(x+1, y, ' ', nil, style)
	}

	d.screen.Show()
	return nil
}

// Close implements ledstrip.Driver. It restores the terminal.
func (d *Driver) Close() error {
	d.screen.Fini()
	return nil
}
