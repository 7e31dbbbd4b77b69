//go:build !pi

package rpi

import (
	"log/slog"

	"libdb.so/ledstrip/led"
)

// Driver is a strip driven by rpi_ws281x. It cannot be opened in this build.
type Driver struct{}

// Open always fails with ErrUnsupported in binaries built without the pi tag.
func Open(opts Options, logger *slog.Logger) (*Driver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

func (d *Driver) NumPixels() int              { return 0 }
func (d *Driver) SetPixel(i int, c led.Color) {}
func (d *Driver) SetBrightness(level uint8)   {}
func (d *Driver) Show() error                 { return ErrUnsupported }
func (d *Driver) Close() error                { return nil }
