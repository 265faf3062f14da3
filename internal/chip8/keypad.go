package chip8

// SetKeys replaces the current keypad snapshot.
func (c *Chip8) SetKeys(keys [KeyCount]bool) {
	c.keys = keys
}

// Keys returns the current keypad snapshot.
func (c *Chip8) Keys() [KeyCount]bool {
	return c.keys
}

// LatchKeys remembers the current keypad snapshot as the previous frame's
// state for edge detection. It runs after each frame's instruction batch.
func (c *Chip8) LatchKeys() {
	c.keysPrevious = c.keys
}

// waitForKey stores the lowest key that went down since the last latch in
// Vx. Without such an edge the instruction is repeated on the next step.
func (c *Chip8) waitForKey(x uint8) Outcome {
	for key := range KeyCount {
		if c.keys[key] && !c.keysPrevious[key] {
			c.V[x] = uint8(key)
			return next
		}
	}
	return Advance(0)
}
