package led

import "testing"

func TestChannelOrderMap(t *testing.T) {
	const r, g, b = 1, 2, 3
	in := RGBOf(r, g, b)

	tests := []struct {
		order ChannelOrder
		want  RGBColor
	}{
		{RGB, RGBColor{r, g, b}},
		{GRB, RGBColor{g, r, b}},
		{BRG, RGBColor{g, b, r}},
		{RBG, RGBColor{r, b, g}},
		{GBR, RGBColor{b, r, g}},
		{BGR, RGBColor{b, g, r}},
		{ChannelOrder(42), RGBColor{r, g, b}},
	}

	for _, test := range tests {
		if got := test.order.Map(in); got != test.want {
			t.Errorf("%v.Map(%v) = %v, want %v", test.order, in, got, test.want)
		}
	}
}

func TestChannelOrderMapIsPermutation(t *testing.T) {
	for _, order := range ChannelOrders() {
		for v := 0; v < 256; v += 15 {
			c := RGBOf(uint8(v), uint8(255-v), uint8(v/2))
			mapped := order.Map(c)

			var seen [3]bool
			for _, got := range mapped {
				found := false
				for j, want := range c {
					if !seen[j] && got == want {
						seen[j] = true
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("%v.Map(%v) = %v is not a permutation", order, c, mapped)
				}
			}

			if again := order.Map(c); again != mapped {
				t.Fatalf("%v.Map(%v) not deterministic: %v then %v", order, c, mapped, again)
			}
			if back := order.Unmap(mapped); back != c {
				t.Fatalf("%v.Unmap(%v) = %v, want %v", order, mapped, back, c)
			}
		}
	}
}

func TestParseChannelOrder(t *testing.T) {
	tests := []struct {
		in    string
		want  ChannelOrder
		known bool
	}{
		{"RGB", RGB, true},
		{"grb", GRB, true},
		{" BGR ", BGR, true},
		{"GBR", GBR, true},
		{"RGBW", RGB, false},
		{"", RGB, false},
	}

	for _, test := range tests {
		got, known := ParseChannelOrder(test.in)
		if got != test.want || known != test.known {
			t.Errorf("ParseChannelOrder(%q) = %v, %v; want %v, %v",
				test.in, got, known, test.want, test.known)
		}
	}
}

func TestChannelOrderUnmarshalTextFallsBack(t *testing.T) {
	order := BGR
	if err := order.UnmarshalText([]byte("XYZ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != RGB {
		t.Fatalf("unknown tag decoded to %v, want RGB", order)
	}

	if err := order.UnmarshalText([]byte("GRB")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != GRB {
		t.Fatalf("GRB decoded to %v", order)
	}
}

func TestChannelOrderNative(t *testing.T) {
	// Pure red on a GRB strip is sent green-channel first.
	if got, want := GRB.Native(RGBOf(0xFF, 0, 0)), Color(0x00FF00); got != want {
		t.Fatalf("GRB.Native(red) = %v, want %v", got, want)
	}
	if got, want := BGR.Native(RGBOf(0x11, 0x22, 0x33)), Color(0x332211); got != want {
		t.Fatalf("BGR.Native = %v, want %v", got, want)
	}
}
