package pixelgl

import (
	"testing"

	"chip8emu/internal/chip8"

	"github.com/retroenv/retrogolib/assert"
)

func TestKeyMapCoversKeypad(t *testing.T) {
	var seen [chip8.KeyCount]bool
	for _, key := range keyMap {
		seen[key] = true
	}
	for key, ok := range seen {
		assert.True(t, ok, "key", key)
	}
}
