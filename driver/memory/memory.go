// Package memory provides an LED driver that keeps the strip in memory. It is
// used for dry runs and as a test double.
package memory

import (
	"log/slog"

	"libdb.so/ledstrip/led"
)

// Driver is an in-memory LED driver.
type Driver struct {
	logger     *slog.Logger
	pixels     []led.Color
	shown      []led.Color
	brightness uint8
	shows      int
	closed     bool
}

// New creates a new in-memory driver with n pixels, all off. A nil logger
// discards frame logs.
func New(n int, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		logger:     logger,
		pixels:     make([]led.Color, n),
		shown:      make([]led.Color, n),
		brightness: 0xFF,
	}
}

// NumPixels implements ledstrip.Driver.
func (d *Driver) NumPixels() int { return len(d.pixels) }

// SetPixel implements ledstrip.Driver.
func (d *Driver) SetPixel(i int, c led.Color) { d.pixels[i] = c }

// SetBrightness implements ledstrip.Driver.
func (d *Driver) SetBrightness(level uint8) { d.brightness = level }

// Show implements ledstrip.Driver. It copies the buffer into the shown frame.
func (d *Driver) Show() error {
	copy(d.shown, d.pixels)
	d.shows++
	d.logger.Debug(
		"memory driver frame",
		"frame", d.shows,
		"brightness", d.brightness,
		"pixels", len(d.shown))
	return nil
}

// Close implements ledstrip.Driver.
func (d *Driver) Close() error {
	d.closed = true
	return nil
}

// Pixels returns the buffer, including changes not shown yet.
func (d *Driver) Pixels() []led.Color { return d.pixels }

// Shown returns the last shown frame.
func (d *Driver) Shown() []led.Color { return d.shown }

// Brightness returns the brightness last set.
func (d *Driver) Brightness() uint8 { return d.brightness }

// Shows returns how many times Show was called.
func (d *Driver) Shows() int { return d.shows }

// Closed returns true if Close was called.
func (d *Driver) Closed() bool { return d.closed }
