package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadFloat(t *testing.T) {
	assert.Equal(t, "001", PadFloat(1, 3))
	assert.Equal(t, "012.5", PadFloat(12.5, 3))
	assert.Equal(t, "1234", PadFloat(1234, 3))
	assert.Equal(t, "7", PadFloat(7, 0))
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"one piece & co": "one%20piece%20%26%20co",
		"a+b":            "a%2Bb",
		"#hash?x=1":      "%23hash%3Fx%3D1",
		"it's (ok)!*":    "it's%20(ok)!*",
		"café":           "caf%C3%A9",
		"a/b":            "a%2Fb",
		"":               "",
	}

	for in, want := range tests {
		assert.Equal(t, want, EncodeURIComponent(in), in)
	}
}
