package led

import "testing"

func TestWheel(t *testing.T) {
	tests := []struct {
		pos  int
		want RGBColor
	}{
		{-1, RGBColor{0, 0, 0}},
		{0, RGBColor{0, 255, 0}},
		{1, RGBColor{3, 252, 0}},
		{84, RGBColor{252, 3, 0}},
		{85, RGBColor{255, 0, 0}},
		{169, RGBColor{3, 0, 252}},
		{170, RGBColor{0, 0, 255}},
		{255, RGBColor{0, 255, 0}},
		{256, RGBColor{0, 0, 0}},
	}

	for _, test := range tests {
		if got := Wheel(test.pos); got != test.want {
			t.Errorf("Wheel(%d) = %v, want %v", test.pos, got, test.want)
		}
	}
}

func TestWheelChannelSum(t *testing.T) {
	// Every position inside the wheel lights exactly two channels (or one at
	// the phase boundaries) with a combined intensity of 255.
	for pos := 0; pos <= 255; pos++ {
		c := Wheel(pos)
		if sum := int(c[0]) + int(c[1]) + int(c[2]); sum != 255 {
			t.Fatalf("Wheel(%d) = %v sums to %d", pos, c, sum)
		}
	}
}
