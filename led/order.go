package led

import (
	"encoding"
	"fmt"
	"strings"
)

// ChannelOrder is the order in which an LED chip expects its color channels
// on the wire.
type ChannelOrder uint8

const (
	// RGB sends red, green, blue. It is also the fallback for unknown orders.
	RGB ChannelOrder = iota
	// GRB sends green, red, blue. Most WS2812B strips are wired this way.
	GRB
	BRG
	RBG
	GBR
	BGR
)

// channelOrders lists the supported orders.
var channelOrders = [...]ChannelOrder{RGB, GRB, BRG, RBG, GBR, BGR}

// ChannelOrders returns all supported channel orders.
func ChannelOrders() []ChannelOrder {
	orders := channelOrders
	return orders[:]
}

// orderTags maps each order to its tag.
var orderTags = [...]string{
	RGB: "RGB",
	GRB: "GRB",
	BRG: "BRG",
	RBG: "RBG",
	GBR: "GBR",
	BGR: "BGR",
}

// orderPermutations maps each order to the index of the logical channel
// (0 = r, 1 = g, 2 = b) that is sent in each native position.
var orderPermutations = [...][3]uint8{
	RGB: {0, 1, 2},
	GRB: {1, 0, 2},
	BRG: {1, 2, 0},
	RBG: {0, 2, 1},
	GBR: {2, 0, 1},
	BGR: {2, 1, 0},
}

var (
	_ encoding.TextUnmarshaler = (*ChannelOrder)(nil)
	_ encoding.TextMarshaler   = RGB
)

// ParseChannelOrder parses one of the six order tags. Case and surrounding
// whitespace are ignored.
func ParseChannelOrder(s string) (ChannelOrder, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for o, tag := range orderTags {
		if tag == s {
			return ChannelOrder(o), true
		}
	}
	return RGB, false
}

// ChannelOrderOf parses the given order tag. Unknown tags are not an error;
// they fall back to RGB.
func ChannelOrderOf(s string) ChannelOrder {
	o, _ := ParseChannelOrder(s)
	return o
}

// IsValid returns true if o is one of the six supported orders.
func (o ChannelOrder) IsValid() bool {
	return int(o) < len(orderPermutations)
}

func (o ChannelOrder) permutation() [3]uint8 {
	if !o.IsValid() {
		return orderPermutations[RGB]
	}
	return orderPermutations[o]
}

// Map permutes a logical color into the native channel order. The values are
// unchanged; only their positions move.
func (o ChannelOrder) Map(c RGBColor) RGBColor {
	p := o.permutation()
	return RGBColor{c[p[0]], c[p[1]], c[p[2]]}
}

// Unmap is the inverse of Map: it turns a native-ordered color back into
// logical R, G, B.
func (o ChannelOrder) Unmap(native RGBColor) RGBColor {
	p := o.permutation()
	var c RGBColor
	for i, src := range p {
		c[src] = native[i]
	}
	return c
}

// Native maps the logical color and packs it into a native Color.
func (o ChannelOrder) Native(c RGBColor) Color {
	return Pack(o.Map(c))
}

// String returns the order tag.
func (o ChannelOrder) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("ChannelOrder(%d)", uint8(o))
	}
	return orderTags[o]
}

// UnmarshalText parses the order tag. Unknown tags fall back to RGB.
func (o *ChannelOrder) UnmarshalText(text []byte) error {
	*o = ChannelOrderOf(string(text))
	return nil
}

// MarshalText returns the order tag.
func (o ChannelOrder) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return []byte(orderTags[RGB]), nil
	}
	return []byte(orderTags[o]), nil
}
