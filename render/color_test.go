package render

import "testing"

func TestResolveRGB(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#ff0000", "255, 0, 0"},
		{"#00FF80", "0, 255, 128"},
		{"#0f0", "0, 255, 0"},
		{"white", "255, 255, 255"},
		{"black", "0, 0, 0"},
		{"Gold", "255, 215, 0"},
		{"  #123456 ", "18, 52, 86"},
		{"not-a-color", DefaultTriplet},
		{"", DefaultTriplet},
	}
	for _, tt := range tests {
		if got := ResolveRGB(tt.in); got != tt.want {
			t.Errorf("ResolveRGB(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRGBBlend(t *testing.T) {
	dst := RGB{0, 0, 0}
	src := RGB{200, 100, 50}

	if got := dst.Blend(src, 0); got != dst {
		t.Errorf("alpha 0 = %v, want dst", got)
	}
	if got := dst.Blend(src, 1); got != src {
		t.Errorf("alpha 1 = %v, want src", got)
	}
	if got := dst.Blend(src, 0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("alpha 0.5 = %v", got)
	}
}

func TestRGBGray(t *testing.T) {
	g := RGB{255, 0, 0}.Gray()
	if g.R != g.G || g.G != g.B {
		t.Errorf("gray not neutral: %v", g)
	}
	if g.R != 76 {
		t.Errorf("luma of red = %d, want 76", g.R)
	}
}
