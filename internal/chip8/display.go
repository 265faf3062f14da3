package chip8

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Framebuffer is the monochrome display, indexed [row][column]. A value of 1
// is a lit pixel.
type Framebuffer [ScreenHeight][ScreenWidth]uint8

// Lit reports whether the pixel at column x, row y is set.
func (f *Framebuffer) Lit(x, y int) bool {
	return f[y][x] == 1
}

func (c *Chip8) clearScreen() {
	c.screen = Framebuffer{}
	c.drawRequested = true
}

// Draw XORs an n byte sprite read from memory at I onto the display with
// its top left corner at (x, y). Every pixel wraps around the screen edges
// individually. VF is set to 1 if any lit pixel was cleared, else 0.
func (c *Chip8) Draw(x, y, n uint8) error {
	if err := checkRange(c.I, int(n)); err != nil {
		return err
	}

	var collision uint8
	for row := range uint16(n) {
		sprite := c.memory[c.I+row]
		py := (int(y) + int(row)) % ScreenHeight

		for col := range 8 {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % ScreenWidth
			collision |= c.screen[py][px]
			c.screen[py][px] ^= 1
		}
	}

	c.V[0xF] = collision
	c.drawRequested = true
	return nil
}
