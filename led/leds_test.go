package led

import (
	"bytes"
	"testing"
)

func TestLEDsAsPixels(t *testing.T) {
	leds := NewLEDs(2)
	leds[0] = RGBOf(1, 2, 3)
	leds[1] = RGBOf(4, 5, 6)

	if got := leds.AsPixels(); !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("AsPixels() = %v", got)
	}

	if NewLEDs(0).AsPixels() != nil {
		t.Fatal("empty strip should have no pixels")
	}
}

func TestLEDsSetRangeClips(t *testing.T) {
	leds := NewLEDs(4)
	leds.SetRange(-2, 2, RGBOf(9, 9, 9))
	leds.SetRange(3, 10, RGBOf(1, 1, 1))

	want := LEDs{RGBOf(9, 9, 9), RGBOf(9, 9, 9), {}, RGBOf(1, 1, 1)}
	for i := range want {
		if leds[i] != want[i] {
			t.Fatalf("leds = %v, want %v", leds, want)
		}
	}
}

func TestLEDsScaleInto(t *testing.T) {
	leds := LEDs{RGBOf(255, 100, 0), RGBOf(10, 20, 30)}
	dst := NewLEDs(2)

	leds.ScaleInto(dst, 51)
	want := LEDs{RGBOf(51, 20, 0), RGBOf(2, 4, 6)}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("scaled = %v, want %v", dst, want)
		}
	}
	if leds[0] != RGBOf(255, 100, 0) {
		t.Fatal("ScaleInto modified the source strip")
	}

	leds.ScaleInto(dst, 255)
	if dst[1] != leds[1] {
		t.Fatalf("full brightness changed %v to %v", leds[1], dst[1])
	}
}
