package spi

import (
	"bytes"
	"testing"

	"libdb.so/ledstrip/led"
)

func TestEncodeFrame(t *testing.T) {
	native := led.LEDs{led.RGBOf(1, 2, 3), led.RGBOf(255, 0, 10)}
	frame := led.NewLEDs(2)

	encodeFrame(frame, native, 255)
	if want := []byte{2, 1, 3, 0, 255, 10}; !bytes.Equal(frame.AsPixels(), want) {
		t.Fatalf("frame = %v, want %v", frame, want)
	}

	encodeFrame(frame, native, 0)
	if want := make([]byte, 6); !bytes.Equal(frame.AsPixels(), want) {
		t.Fatalf("frame at zero brightness = %v", frame)
	}
}
