// Package termview presents viewer frames in a terminal using half-block
// cells and turns terminal input into viewer actions.
package termview

import (
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"

	"holocard-renderer/internal/postprocess"
)

// halfBlock draws the top pixel as foreground and the bottom as background.
const halfBlock = '▀'

var backdrop = color.NRGBA{R: 16, G: 16, B: 20, A: 255}

// Screen is a viewer surface backed by a tcell screen. Each cell shows two
// vertically stacked pixels; the last row is a status line.
type Screen struct {
	screen tcell.Screen

	mu     sync.Mutex
	status string
}

// Open creates and initialises the terminal screen with mouse reporting.
func Open() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return Wrap(s), nil
}

// Wrap adopts an initialised screen.
func Wrap(s tcell.Screen) *Screen {
	s.EnableMouse()
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}
}

// Events exposes the underlying screen for event polling.
func (s *Screen) Events() tcell.Screen { return s.screen }

// Size returns the drawable area in pixels.
func (s *Screen) Size() (int, int) {
	w, h := s.screen.Size()
	return w, max(0, h-1) * 2
}

// SetStatus replaces the status line text shown with the next frame.
func (s *Screen) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

// Present draws img, flattened onto the backdrop, followed by the status
// line.
func (s *Screen) Present(img *image.NRGBA) error {
	img = postprocess.Flatten(img, backdrop)
	cols, rows := s.screen.Size()
	b := img.Bounds()
	for cy := 0; cy < rows-1; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := pixel(img, b.Min.X+cx, b.Min.Y+cy*2)
			bottom := pixel(img, b.Min.X+cx, b.Min.Y+cy*2+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	s.drawStatus(status, cols, rows-1)
	s.screen.Show()
	return nil
}

func (s *Screen) drawStatus(text string, cols, row int) {
	if row < 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(220, 220, 230)).Background(tcell.NewRGBColor(30, 30, 40))
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		s.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		s.screen.SetContent(x, row, ' ', nil, style)
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

func pixel(img *image.NRGBA, x, y int) tcell.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return tcell.NewRGBColor(int32(backdrop.R), int32(backdrop.G), int32(backdrop.B))
	}
	i := img.PixOffset(x, y)
	return tcell.NewRGBColor(int32(img.Pix[i]), int32(img.Pix[i+1]), int32(img.Pix[i+2]))
}
