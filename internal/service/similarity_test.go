package service

import (
	"math"
	"testing"
)

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "farm gardens", "farm gardens", 1.0},
		{"both empty", "", "", 0.0},
		{"one empty", "farm", "", 0.0},
		{"no overlap", "abc", "xyz", 0.0},
		// "bcd" is the longest common block: 2*3/(4+4).
		{"shifted block", "abcd", "bcde", 0.75},
		// "b" and "cd" both match across the split: 2*3/(4+4).
		{"split blocks", "abcd", "bXcd", 0.75},
		{"substring", "gardens", "farm gardens", 2.0 * 7 / 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("matchRatio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"farm gardens 1", "farm gardens"},
		{"the valley", "valley heights"},
		{"abcd", "bcde"},
	}
	for _, p := range pairs {
		ab := matchRatio(p[0], p[1])
		ba := matchRatio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("matchRatio(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestMatchRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"marina heights", "dubai marina"},
		{"a", "aaaa"},
		{"palm jumeirah aza", "aza"},
	}
	for _, p := range pairs {
		got := matchRatio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("matchRatio(%q, %q) = %v, outside [0,1]", p[0], p[1], got)
		}
	}
}
