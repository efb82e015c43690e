package petscii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeByte(t *testing.T) {
	tests := []struct {
		in  byte
		exp rune
	}{
		{in: 'A', exp: 'A'},
		{in: '5', exp: '5'},
		{in: ' ', exp: ' '},
		{in: 0xDD, exp: '│'},
		{in: 0xA3, exp: '─'},
		{in: 0xA0, exp: '▒'},
		{in: 0x01, exp: '?'},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exp, DecodeByte(tt.in))
	}
}

func TestDecode(t *testing.T) {
	got := Decode([]byte{'H', 'I', 0xDD})
	assert.Equal(t, "HI│", got)
}

func TestPlaceholder(t *testing.T) {
	r, ok := Placeholder("BALL")
	assert.True(t, ok)
	assert.Equal(t, '●', r)

	_, ok = Placeholder("CLR")
	assert.False(t, ok)
}
