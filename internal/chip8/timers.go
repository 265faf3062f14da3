package chip8

// TickTimers decrements the delay and sound timers, stopping at zero. It is
// called once per display frame regardless of the instructions executed.
func (c *Chip8) TickTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// SoundActive reports whether the tone should be audible.
func (c *Chip8) SoundActive() bool {
	return c.ST > 0
}
