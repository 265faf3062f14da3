// Package pixelgl implements an OpenGL window frontend based on pixel.
package pixelgl

import (
	"fmt"
	"image"
	"image/color"

	"chip8emu/internal/chip8"

	"github.com/gopxl/pixel/v2"
	"github.com/gopxl/pixel/v2/backends/opengl"
)

var (
	colorOff = color.RGBA{0xd1, 0xd4, 0xcd, 255}
	colorOn  = color.RGBA{0x74, 0x8c, 0xab, 255}
)

var keyMap = map[pixel.Button]byte{
	pixel.Key1: 0x1, pixel.Key2: 0x2, pixel.Key3: 0x3, pixel.Key4: 0xC,
	pixel.KeyQ: 0x4, pixel.KeyW: 0x5, pixel.KeyE: 0x6, pixel.KeyR: 0xD,
	pixel.KeyA: 0x7, pixel.KeyS: 0x8, pixel.KeyD: 0x9, pixel.KeyF: 0xE,
	pixel.KeyZ: 0xA, pixel.KeyX: 0x0, pixel.KeyC: 0xB, pixel.KeyV: 0xF,

	pixel.KeyUp:    0x2,
	pixel.KeyLeft:  0x4,
	pixel.KeyRight: 0x6,
	pixel.KeyDown:  0x8,
}

// Run starts the OpenGL main loop and calls fn on the main thread. All
// window functions must be called from within fn.
func Run(fn func()) {
	opengl.Run(fn)
}

// Window renders the framebuffer and reads the keyboard.
type Window struct {
	win   *opengl.Window
	img   *image.RGBA
	scale float64
}

// New opens a window scaled by the given factor.
func New(title string, scale int) (*Window, error) {
	cfg := opengl.WindowConfig{
		Title:     title,
		Bounds:    pixel.R(0, 0, float64(chip8.ScreenWidth*scale), float64(chip8.ScreenHeight*scale)),
		VSync:     false,
		Resizable: false,
	}
	win, err := opengl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	win.SetMatrix(pixel.IM.Scaled(pixel.ZV, 1))
	win.Clear(colorOff)
	win.Update()

	return &Window{
		win:   win,
		img:   image.NewRGBA(image.Rect(0, 0, chip8.ScreenWidth, chip8.ScreenHeight)),
		scale: float64(scale),
	}, nil
}

// Render draws the framebuffer, it becomes visible on the next Poll.
func (w *Window) Render(screen chip8.Framebuffer) error {
	for y := range chip8.ScreenHeight {
		for x := range chip8.ScreenWidth {
			if screen.Lit(x, y) {
				w.img.SetRGBA(x, y, colorOn)
			} else {
				w.img.SetRGBA(x, y, colorOff)
			}
		}
	}

	pic := pixel.PictureDataFromImage(w.img)
	sprite := pixel.NewSprite(pic, pic.Bounds())

	mat := pixel.IM.
		Scaled(pixel.ZV, w.scale).
		Moved(w.win.Bounds().Center())

	w.win.Clear(colorOff)
	sprite.Draw(w.win, mat)
	return nil
}

// Poll swaps the buffers, processes window events and returns the keypad
// state. Escape or closing the window quits.
func (w *Window) Poll() ([chip8.KeyCount]bool, bool) {
	w.win.Update()

	var keys [chip8.KeyCount]bool
	for key, chip8Key := range keyMap {
		if w.win.Pressed(key) {
			keys[chip8Key] = true
		}
	}

	quit := w.win.Closed() || w.win.Pressed(pixel.KeyEscape)
	return keys, quit
}

// Close destroys the window.
func (w *Window) Close() {
	w.win.Destroy()
}
