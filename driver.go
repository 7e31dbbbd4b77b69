package ledstrip

import "libdb.so/ledstrip/led"

// Driver is the native LED driver a Strip wraps. The driver owns the pixel
// buffer and all hardware state; the strip only ever writes native colors
// into it and asks it to show them.
//
// Drivers are initialized by their constructors and are not safe for
// concurrent use.
type Driver interface {
	// NumPixels returns the number of LEDs on the strip.
	NumPixels() int
	// SetPixel sets the native color of the LED at index i in the driver's
	// buffer. The index is within [0, NumPixels).
	SetPixel(i int, c led.Color)
	// SetBrightness sets the global brightness applied on the next Show.
	SetBrightness(level uint8)
	// Show pushes the buffer to the LEDs. It blocks until the transfer is
	// done.
	Show() error
	// Close releases the driver. The LEDs keep their last shown colors.
	Close() error
}
