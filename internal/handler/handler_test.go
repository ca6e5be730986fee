package handler

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		max  int
		want int
	}{
		{"within range", "50", 200, 50},
		{"zero clamps to one", "0", 200, 1},
		{"negative clamps to one", "-5", 200, 1},
		{"above max clamps to max", "9999", 200, 200},
		{"non-numeric clamps to one", "abc", 200, 1},
		{"empty clamps to one", "", 200, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampLimit(tt.raw, tt.max)
			if got != tt.want {
				t.Errorf("clampLimit(%q, %d) = %d, want %d", tt.raw, tt.max, got, tt.want)
			}
		})
	}
}
