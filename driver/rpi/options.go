// Package rpi drives a WS281x strip through the rpi_ws281x native library,
// which generates the signal using the Raspberry Pi's PWM or PCM peripheral
// and DMA.
//
// The native library is only linked in binaries built with the pi build tag;
// elsewhere Open returns ErrUnsupported.
package rpi

import "github.com/pkg/errors"

// ErrUnsupported is returned by Open in binaries built without the pi tag.
var ErrUnsupported = errors.New("rpi driver not compiled in, rebuild with -tags pi")

// Options are the native driver's initialization parameters.
type Options struct {
	// Count is the number of LEDs.
	Count int
	// Pin is the GPIO pin of the data line.
	Pin int
	// FreqHz is the signal frequency, usually 800000.
	FreqHz int
	// DMA is the DMA channel.
	DMA int
	// Brightness is the initial brightness.
	Brightness uint8
	// Invert inverts the signal.
	Invert bool
	// Channel is the PWM channel, 0 or 1.
	Channel int
}

func (o Options) validate() error {
	if o.Count < 1 {
		return errors.Errorf("invalid LED count %d", o.Count)
	}
	if o.Channel != 0 && o.Channel != 1 {
		return errors.Errorf("invalid channel %d", o.Channel)
	}
	return nil
}
