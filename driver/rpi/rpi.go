//go:build pi

package rpi

import (
	"log/slog"

	"github.com/pkg/errors"
	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
	"libdb.so/ledstrip/led"
)

// linearGamma disables the library's gamma correction so that colors reach
// the LEDs unchanged.
var linearGamma = func() []byte {
	gamma := make([]byte, 256)
	for i := range gamma {
		gamma[i] = byte(i)
	}
	return gamma
}()

// Driver is a strip driven by rpi_ws281x.
type Driver struct {
	dev     *ws2811.WS2811
	logger  *slog.Logger
	channel int
	leds    []uint32
}

// Open initializes the native library. This usually needs root.
func Open(opts Options, logger *slog.Logger) (*Driver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// The strip type is always RGB: the channel order is applied by the
	// strip before colors reach the library.
	channels := make([]ws2811.ChannelOption, opts.Channel+1)
	channels[opts.Channel] = ws2811.ChannelOption{
		GpioPin:    opts.Pin,
		Invert:     opts.Invert,
		LedCount:   opts.Count,
		StripeType: ws2811.WS2811StripRGB,
		Brightness: int(opts.Brightness),
		Gamma:      linearGamma,
	}

	dev, err := ws2811.MakeWS2811(&ws2811.Option{
		Frequency: opts.FreqHz,
		DmaNum:    opts.DMA,
		Channels:  channels,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ws2811 device")
	}

	if err := dev.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize ws2811 (are you root?)")
	}

	logger.Debug(
		"initialized rpi_ws281x",
		"pin", opts.Pin,
		"count", opts.Count,
		"freq_hz", opts.FreqHz,
		"dma", opts.DMA,
		"channel", opts.Channel)

	return &Driver{
		dev:     dev,
		logger:  logger,
		channel: opts.Channel,
		leds:    dev.Leds(opts.Channel),
	}, nil
}

// NumPixels implements ledstrip.Driver.
func (d *Driver) NumPixels() int { return len(d.leds) }

// SetPixel implements ledstrip.Driver.
func (d *Driver) SetPixel(i int, c led.Color) { d.leds[i] = uint32(c) }

// SetBrightness implements ledstrip.Driver.
func (d *Driver) SetBrightness(level uint8) {
	d.dev.SetBrightness(d.channel, int(level))
}

// Show implements ledstrip.Driver. It blocks until the DMA transfer is done.
func (d *Driver) Show() error {
	if err := d.dev.Render(); err != nil {
		return errors.Wrap(err, "failed to render")
	}
	if err := d.dev.Wait(); err != nil {
		return errors.Wrap(err, "failed to wait for render")
	}
	return nil
}

// Close implements ledstrip.Driver.
func (d *Driver) Close() error {
	d.dev.Fini()
	return nil
}
