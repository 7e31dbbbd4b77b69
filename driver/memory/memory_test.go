package memory

import (
	"testing"

	"libdb.so/ledstrip/led"
)

func TestDriver(t *testing.T) {
	d := New(3, nil)

	if n := d.NumPixels(); n != 3 {
		t.Fatalf("NumPixels = %d, want 3", n)
	}
	if b := d.Brightness(); b != 0xFF {
		t.Fatalf("initial brightness = %d, want 255", b)
	}

	d.SetPixel(1, 0x123456)
	if got := d.Shown()[1]; got != 0 {
		t.Fatalf("pixel shown before Show: %s", got)
	}
	if got := d.Pixels()[1]; got != 0x123456 {
		t.Fatalf("pending pixel = %s, want 0x123456", got)
	}

	if err := d.Show(); err != nil {
		t.Fatal("Show:", err)
	}
	want := []led.Color{0, 0x123456, 0}
	for i, c := range d.Shown() {
		if c != want[i] {
			t.Fatalf("shown[%d] = %s, want %s", i, c, want[i])
		}
	}
	if d.Shows() != 1 {
		t.Fatalf("Shows = %d, want 1", d.Shows())
	}

	d.SetBrightness(10)
	if d.Brightness() != 10 {
		t.Fatalf("brightness = %d, want 10", d.Brightness())
	}

	if err := d.Close(); err != nil {
		t.Fatal("Close:", err)
	}
	if !d.Closed() {
		t.Fatal("driver not closed")
	}
}
