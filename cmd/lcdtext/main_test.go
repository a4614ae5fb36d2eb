package main

import (
	"testing"

	"tftlcd/pkg/bitmap"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    bitmap.Color
		wantErr bool
	}{
		{"ffffff", 0xFFFF, false},
		{"#ff0000", 0xF800, false},
		{"00ff00", 0x07E0, false},
		{"fff", 0, true},
		{"zzzzzz", 0, true},
	}

	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColor(%q) = %#04x, want %#04x", tt.in, got, tt.want)
		}
	}
}
