package led

// Wheel returns a color on a three-phase hue wheel for a position in
// [0, 255]: green to red, red to blue, then blue to green. Positions outside
// of that range are off.
func Wheel(pos int) RGBColor {
	switch {
	case pos < 0 || pos > 255:
		return RGBColor{}
	case pos < 85:
		return RGBColor{uint8(pos * 3), uint8(255 - pos*3), 0}
	case pos < 170:
		pos -= 85
		return RGBColor{uint8(255 - pos*3), 0, uint8(pos * 3)}
	default:
		pos -= 170
		return RGBColor{0, uint8(pos * 3), uint8(255 - pos*3)}
	}
}
