// Package ledstrip controls WS2812 LED strips through a native driver. It
// maps logical RGB colors into the channel order the LEDs are wired for and
// leaves the signalling to the driver.
package ledstrip

import (
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/ledstrip/led"
)

// ErrInvalidArgument is returned when a pixel index or color value is out of
// range.
var ErrInvalidArgument = led.ErrInvalidArgument

// StripConfig is the part of the configuration that the Strip itself uses.
// Everything else belongs to the driver.
type StripConfig struct {
	// Order is the channel order of the LED chips. It cannot be changed once
	// the strip is created.
	Order led.ChannelOrder
	// Brightness is the initial brightness.
	Brightness uint8
}

// Strip controls a strip of LEDs through a Driver. Colors given in logical
// R, G, B are mapped into the strip's channel order before they reach the
// driver.
//
// A Strip is not safe for concurrent use.
type Strip struct {
	drv        Driver
	logger     *slog.Logger
	order      led.ChannelOrder
	brightness uint8
}

// New creates a new strip on top of an already initialized driver.
func New(cfg StripConfig, drv Driver, logger *slog.Logger) (*Strip, error) {
	if drv.NumPixels() < 1 {
		return nil, errors.Wrap(ErrInvalidArgument, "driver has no pixels")
	}

	if !cfg.Order.IsValid() {
		logger.Warn(
			"unknown channel order, falling back to RGB",
			"order", cfg.Order)
		cfg.Order = led.RGB
	}

	s := &Strip{
		drv:    drv,
		logger: logger,
		order:  cfg.Order,
	}
	s.SetBrightness(cfg.Brightness)

	logger.Debug(
		"strip created",
		"pixels", drv.NumPixels(),
		"order", s.order,
		"brightness", s.brightness)

	return s, nil
}

// Order returns the strip's channel order.
func (s *Strip) Order() led.ChannelOrder {
	return s.order
}

// NumPixels returns the number of LEDs on the strip.
func (s *Strip) NumPixels() int {
	return s.drv.NumPixels()
}

// Brightness returns the brightness last set on the strip.
func (s *Strip) Brightness() uint8 {
	return s.brightness
}

// SetBrightness sets the brightness. It takes effect on the next Show.
func (s *Strip) SetBrightness(level uint8) {
	s.brightness = level
	s.drv.SetBrightness(level)
}

func (s *Strip) checkIndex(i int) error {
	if i < 0 || i >= s.drv.NumPixels() {
		return errors.Wrapf(ErrInvalidArgument, "pixel %d out of range [0, %d)", i, s.drv.NumPixels())
	}
	return nil
}

// SetPixelColor sets the LED at index i to a color that is already in the
// strip's native order.
func (s *Strip) SetPixelColor(i int, c led.Color) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.drv.SetPixel(i, c)
	return nil
}

// SetPixelRGB sets the LED at index i to the given logical color.
func (s *Strip) SetPixelRGB(i int, r, g, b uint8) error {
	return s.SetPixelColor(i, s.order.Native(led.RGBOf(r, g, b)))
}

// SetPixels sets the LEDs starting at index 0 to the given logical colors.
// Colors past the end of the strip are ignored.
func (s *Strip) SetPixels(leds led.LEDs) {
	n := min(len(leds), s.drv.NumPixels())
	for i := 0; i < n; i++ {
		s.drv.SetPixel(i, s.order.Native(leds[i]))
	}
}

// SetAllRGB sets every LED to the given logical color and shows it.
func (s *Strip) SetAllRGB(r, g, b uint8) error {
	return s.SetAllColor(s.order.Native(led.RGBOf(r, g, b)))
}

// SetAllColor sets every LED to a color that is already in the strip's
// native order and shows it. The color is not mapped again.
func (s *Strip) SetAllColor(c led.Color) error {
	for i := 0; i < s.drv.NumPixels(); i++ {
		s.drv.SetPixel(i, c)
	}
	return s.Show()
}

// Show pushes all pending changes to the LEDs.
func (s *Strip) Show() error {
	if err := s.drv.Show(); err != nil {
		return errors.Wrap(err, "failed to show LEDs")
	}
	return nil
}

// Clear turns every LED off and shows it.
func (s *Strip) Clear() error {
	return s.SetAllColor(0)
}

// Wheel returns the rainbow color at the given position in the strip's
// native order. See led.Wheel.
func (s *Strip) Wheel(pos int) led.Color {
	return s.order.Native(led.Wheel(pos))
}

// Close closes the underlying driver without clearing the LEDs.
func (s *Strip) Close() error {
	if err := s.drv.Close(); err != nil {
		return errors.Wrap(err, "failed to close driver")
	}
	return nil
}
