// Package spi drives a WS281x strip from an SPI port's MOSI line using
// periph's NRZ encoder. It needs no native library and no DMA channel.
package spi

import (
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/ledstrip/led"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// Options configures the SPI driver.
type Options struct {
	// Port is the SPI port name, for example "/dev/spidev0.0". Empty opens
	// the first port periph finds.
	Port string
	// Count is the number of LEDs.
	Count int
	// FreqHz is the LED signal frequency, usually 800000.
	FreqHz int
}

// Driver is a strip driven over SPI.
type Driver struct {
	port       spi.PortCloser
	dev        *nrzled.Dev
	logger     *slog.Logger
	pixels     led.LEDs
	frame      led.LEDs
	brightness uint8
}

// Open initializes periph and opens the SPI port.
func Open(opts Options, logger *slog.Logger) (*Driver, error) {
	if opts.Count < 1 {
		return nil, errors.Errorf("invalid LED count %d", opts.Count)
	}
	if opts.FreqHz <= 0 {
		opts.FreqHz = 800000
	}

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph")
	}

	port, err := spireg.Open(opts.Port)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SPI port %q", opts.Port)
	}

	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: opts.Count,
		Channels:  3,
		Freq:      physic.Frequency(opts.FreqHz) * physic.Hertz,
	})
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to create NRZ encoder")
	}

	logger.Debug(
		"opened SPI LED driver",
		"port", port.String(),
		"count", opts.Count,
		"freq_hz", opts.FreqHz)

	return &Driver{
		port:       port,
		dev:        dev,
		logger:     logger,
		pixels:     led.NewLEDs(opts.Count),
		frame:      led.NewLEDs(opts.Count),
		brightness: 0xFF,
	}, nil
}

// NumPixels implements ledstrip.Driver.
func (d *Driver) NumPixels() int { return len(d.pixels) }

// SetPixel implements ledstrip.Driver.
func (d *Driver) SetPixel(i int, c led.Color) { d.pixels[i] = c.Unpack() }

// SetBrightness implements ledstrip.Driver. Brightness is applied to the
// pixels when they are shown.
func (d *Driver) SetBrightness(level uint8) { d.brightness = level }

// Show implements ledstrip.Driver.
func (d *Driver) Show() error {
	encodeFrame(d.frame, d.pixels, d.brightness)
	if _, err := d.dev.Write(d.frame.AsPixels()); err != nil {
		return errors.Wrap(err, "failed to write SPI frame")
	}
	return nil
}

// Close implements ledstrip.Driver.
func (d *Driver) Close() error {
	if err := d.dev.Halt(); err != nil {
		d.logger.Warn("failed to halt NRZ encoder", "error", err)
	}
	return d.port.Close()
}

// encodeFrame scales the native pixels into frame in the order nrzled
// expects. nrzled always swaps the first two bytes of every pixel (it assumes
// RGB input for GRB chips), so they are swapped here too and the native order
// reaches the wire unchanged.
func encodeFrame(frame, native led.LEDs, brightness uint8) {
	native.ScaleInto(frame, brightness)
	for i := range frame {
		frame[i][0], frame[i][1] = frame[i][1], frame[i][0]
	}
}
