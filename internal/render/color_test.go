package render

import (
	"math"
	"testing"
)

func TestToken(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{RGB{0, 255, 0}, "\x1b[48;2;0;255;0m "},
		{RGB{7, 248, 10}, "\x1b[48;2;7;248;10m "},
		{RGB{128, 127, 254}, "\x1b[48;2;128;127;254m "},
		{RGB{255, 255, 255}, "\x1b[48;2;255;255;255m "},
	}

	for _, tt := range tests {
		if got := Token(tt.c); got != tt.want {
			t.Errorf("Token(%v) = %q, want %q", tt.c, got, tt.want)
		}
		if n := len(Token(tt.c)); n > MaxTokenLen {
			t.Errorf("Token(%v) is %d bytes, longer than MaxTokenLen", tt.c, n)
		}
	}
}

func TestAppendTokenAppends(t *testing.T) {
	buf := []byte("x")
	buf = AppendToken(buf, RGB{1, 2, 3})
	buf = AppendToken(buf, RGB{4, 5, 6})
	want := "x\x1b[48;2;1;2;3m \x1b[48;2;4;5;6m "
	if string(buf) != want {
		t.Errorf("got %q, want %q", buf, want)
	}
}

func TestIntensityClamps(t *testing.T) {
	tests := []struct {
		name                    string
		noise, slope, intercept float64
		want                    int
	}{
		{"midpoint", 0, 127.5, 127.5, 127},
		{"top of range", 1, 127.5, 127.5, 255},
		{"bottom of range", -1, 127.5, 127.5, 0},
		{"truncates", 0.5, 127.5, 127.5, 191},
		{"far above", 40, 127.5, 127.5, 255},
		{"far below", -40, 127.5, 127.5, 0},
		{"overflowing slope", 1e300, 1e300, 0, 255},
		{"overflowing negative", -1e300, 1e300, 0, 0},
		{"infinite noise", math.Inf(1), 127.5, 127.5, 255},
		{"negative infinite noise", math.Inf(-1), 127.5, 127.5, 0},
		{"nan noise", math.NaN(), 127.5, 127.5, 0},
		{"inf minus inf", math.Inf(1), 1, math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intensity(tt.noise, tt.slope, tt.intercept); got != tt.want {
				t.Errorf("Intensity(%g, %g, %g) = %d, want %d", tt.noise, tt.slope, tt.intercept, got, tt.want)
			}
		})
	}
}

func TestIntensityAlwaysInRange(t *testing.T) {
	for i := -2000; i <= 2000; i++ {
		v := float64(i) * 0.37
		for _, slope := range []float64{-1e6, -3, 0, 1, 127.5, 1e9} {
			got := Intensity(v, slope, 127.5)
			if got < 0 || got > 255 {
				t.Fatalf("Intensity(%g, %g, 127.5) = %d out of range", v, slope, got)
			}
		}
	}
}

func TestCellColor(t *testing.T) {
	tests := []struct {
		v, frame int
		want     RGB
	}{
		{0, 0, RGB{0, 255, 0}},
		{200, 10, RGB{200, 55, 10}},
		{255, 255, RGB{255, 0, 0}},
		{100, 300, RGB{100, 155, 45}},
		{10, -1, RGB{10, 245, 254}},
		{300, 1, RGB{255, 0, 1}},
	}

	for _, tt := range tests {
		if got := CellColor(tt.v, tt.frame); got != tt.want {
			t.Errorf("CellColor(%d, %d) = %v, want %v", tt.v, tt.frame, got, tt.want)
		}
	}
}
