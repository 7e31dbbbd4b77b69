package led

import (
	"testing"

	"github.com/pkg/errors"
)

func TestRGBFromInts(t *testing.T) {
	c, err := RGBFromInts(255, 128, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != RGBOf(255, 128, 0) {
		t.Fatalf("got %v", c)
	}

	for _, bad := range [][3]int{{256, 0, 0}, {0, -1, 0}, {0, 0, 1000}} {
		_, err := RGBFromInts(bad[0], bad[1], bad[2])
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("RGBFromInts%v: expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestRGBColorText(t *testing.T) {
	var c RGBColor
	if err := c.UnmarshalText([]byte("#ff8000")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != RGBOf(0xFF, 0x80, 0x00) {
		t.Fatalf("parsed %v", c)
	}
	if s := c.String(); s != "#ff8000" {
		t.Fatalf("String() = %q", s)
	}

	if err := c.UnmarshalText([]byte("orange")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPackUnpack(t *testing.T) {
	c := Pack(RGBOf(0x12, 0x34, 0x56))
	if c != 0x123456 {
		t.Fatalf("Pack = %v", c)
	}
	if u := c.Unpack(); u != RGBOf(0x12, 0x34, 0x56) {
		t.Fatalf("Unpack = %v", u)
	}
}

func TestScale(t *testing.T) {
	c := RGBOf(255, 100, 0)
	if got := c.Scale(255); got != c {
		t.Fatalf("full brightness changed color: %v", got)
	}
	if got := c.Scale(0); !got.IsOff() {
		t.Fatalf("zero brightness left color on: %v", got)
	}
	if got := c.Scale(51); got != RGBOf(51, 20, 0) {
		t.Fatalf("Scale(51) = %v", got)
	}
}
