package calc

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{10, "10"},
		{-6, "-6"},
		{0.09, "0.09"},
		{0.1 + 0.2, "0.30000000000000004"},
		{123456789012345680000, "123456789012345680000"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
		{0.0000005, "5e-7"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) should be %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"0.", 0},
		{"12.5", 12.5},
		{"-3", -3},
		{"-", 0},
		{ErrorSentinel, 0},
		{"1e+21", 1e21},
	}

	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) should be %v, got %v", tt.in, tt.want, got)
		}
	}

	if v := ParseNumber("-Infinity"); !math.IsInf(v, -1) {
		t.Errorf("ParseNumber(-Infinity) should be -Inf, got %v", v)
	}
	if v := ParseNumber("NaN"); !math.IsNaN(v) {
		t.Errorf("ParseNumber(NaN) should be NaN, got %v", v)
	}
}
