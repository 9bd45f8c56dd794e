package raster

import (
	"image"
	"math"

	"holocard-renderer/internal/mathutil"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Depth grows toward the viewer; empty pixels hold -inf.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf

	// drawn stamps pixels blended by the current draw call.
	drawn []uint32
	draw  uint32
}

// NewFrameBuffer allocates a zeroed color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
		drawn:  make([]uint32, n),
	}
}

// beginDraw starts a new blended draw call.
func (fb *FrameBuffer) beginDraw() {
	fb.draw++
	if fb.draw == 0 {
		clear(fb.drawn)
		fb.draw = 1
	}
}

// Clear fills the colour buffer with bg at the given alpha and resets depth.
func (fb *FrameBuffer) Clear(bg mathutil.RGB, alpha uint8) {
	r, g, b := bg.To8()
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = alpha
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
}

// At returns the colour of pixel (x, y).
func (fb *FrameBuffer) At(x, y int) mathutil.RGB {
	i := (y*fb.Width + x) * 4
	return mathutil.From8(fb.Color[i], fb.Color[i+1], fb.Color[i+2])
}

// Set writes pixel (x, y) as fully opaque.
func (fb *FrameBuffer) Set(x, y int, c mathutil.RGB) {
	i := (y*fb.Width + x) * 4
	fb.Color[i], fb.Color[i+1], fb.Color[i+2] = c.To8()
	fb.Color[i+3] = 255
}

// Image copies the colour buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
