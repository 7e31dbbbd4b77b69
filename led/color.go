// Package led contains the color types shared by the strip, its drivers and
// its effects: logical RGB colors, channel orders and the pixel buffer.
package led

import (
	"encoding"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned when a caller passes a value outside of the
// range an operation accepts, such as a pixel index past the end of the strip
// or a color channel above 255.
var ErrInvalidArgument = errors.New("invalid argument")

// RGBColor is a color with three 8-bit channels. Unless stated otherwise, the
// channels are in logical R, G, B order.
type RGBColor [3]uint8

var (
	_ encoding.TextUnmarshaler = (*RGBColor)(nil)
	_ encoding.TextMarshaler   = RGBColor{}
)

// RGBOf creates a new RGBColor.
func RGBOf(r, g, b uint8) RGBColor {
	return RGBColor{r, g, b}
}

// RGBFromInts creates a new RGBColor from plain integers. Values outside of
// [0, 255] are rejected with ErrInvalidArgument instead of being wrapped or
// clamped.
func RGBFromInts(r, g, b int) (RGBColor, error) {
	for _, v := range [...]int{r, g, b} {
		if v < 0 || v > 255 {
			return RGBColor{}, errors.Wrapf(ErrInvalidArgument, "color channel %d out of range [0, 255]", v)
		}
	}
	return RGBColor{uint8(r), uint8(g), uint8(b)}, nil
}

// R returns the first channel.
func (c RGBColor) R() uint8 { return c[0] }

// G returns the second channel.
func (c RGBColor) G() uint8 { return c[1] }

// B returns the third channel.
func (c RGBColor) B() uint8 { return c[2] }

// IsOff returns true if all channels are zero.
func (c RGBColor) IsOff() bool { return c == RGBColor{} }

// Scale scales every channel by level/255. Scaling is independent of the
// channel order, so it may be applied to native colors as well.
func (c RGBColor) Scale(level uint8) RGBColor {
	if level == 0xFF {
		return c
	}
	for i := range c {
		c[i] = uint8(uint(c[i]) * uint(level) / 0xFF)
	}
	return c
}

// String formats the color as #rrggbb.
func (c RGBColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Colorful converts the color into a colorful.Color for blending.
func (c RGBColor) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}
}

// FromColorful converts a colorful.Color back, clamping it into gamut first.
func FromColorful(c colorful.Color) RGBColor {
	r, g, b := c.Clamped().RGB255()
	return RGBColor{r, g, b}
}

// UnmarshalText parses a hex color such as "#ff8000".
func (c *RGBColor) UnmarshalText(text []byte) error {
	parsed, err := colorful.Hex(string(text))
	if err != nil {
		return errors.Wrapf(ErrInvalidArgument, "invalid color %q", text)
	}
	*c = FromColorful(parsed)
	return nil
}

// MarshalText formats the color as #rrggbb.
func (c RGBColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Color is a packed 24-bit color value as the native drivers expect it,
// 0x00AABBCC where AA, BB and CC are the first, second and third channel sent
// on the wire. A Color is always already in the strip's native channel order.
type Color uint32

// Pack packs three channel bytes into a Color, first channel in the high
// byte.
func Pack(c RGBColor) Color {
	return Color(c[0])<<16 | Color(c[1])<<8 | Color(c[2])
}

// Unpack splits a Color into its three channel bytes.
func (c Color) Unpack() RGBColor {
	return RGBColor{uint8(c >> 16), uint8(c >> 8), uint8(c)}
}

// String formats the color as 0xAABBCC.
func (c Color) String() string {
	return fmt.Sprintf("0x%06x", uint32(c))
}
