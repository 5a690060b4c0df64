package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Options Trading 101", "options-trading-101"},
		{"punctuation stripped", "Risk & Money Management!", "risk-money-management"},
		{"extra spaces collapse", "  Candlestick   Patterns  ", "candlestick-patterns"},
		{"empty falls back", "!!!", "untitled"},
		{"already clean", "futures", "futures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}
