package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDownsample(t *testing.T) {
	src := filled(40, 60, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	out := Downsample(src, 20, 30)
	if out.Rect.Dx() != 20 || out.Rect.Dy() != 30 {
		t.Fatalf("size = %v", out.Rect)
	}
	i := out.PixOffset(10, 15)
	if out.Pix[i] < 195 || out.Pix[i+3] != 255 {
		t.Errorf("centre = %v", out.Pix[i:i+4])
	}
	if Downsample(src, 40, 60) != src {
		t.Error("same-size downsample should return the input")
	}
}

func TestDownsampleNoDarkHalo(t *testing.T) {
	// Bright opaque left half, fully transparent black right half.
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			i := src.PixOffset(x, y)
			src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 255, 255, 255, 255
		}
	}
	out := Downsample(src, 20, 20)
	for x := 0; x < 20; x++ {
		i := out.PixOffset(x, 10)
		if out.Pix[i+3] > 32 && out.Pix[i] < 200 {
			t.Errorf("dark fringe at x=%d: %v", x, out.Pix[i:i+4])
		}
	}
}

func TestCropAndCenter(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 10; y < 30; y++ {
		for x := 60; x < 70; x++ {
			src.Pix[src.PixOffset(x, y)+3] = 255
		}
	}
	out := CropAndCenter(src, 50, 50, 0.8)
	if out.Rect.Dx() != 50 || out.Rect.Dy() != 50 {
		t.Fatalf("size = %v", out.Rect)
	}
	if out.Pix[out.PixOffset(25, 25)+3] == 0 {
		t.Error("centre is empty")
	}
	if out.Pix[out.PixOffset(25, 1)+3] != 0 {
		t.Error("silhouette exceeds fill ratio")
	}
	if out.Pix[out.PixOffset(5, 25)+3] != 0 {
		t.Error("narrow silhouette should leave side margins")
	}
}

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(src.Pix, []uint8{255, 0, 0, 255, 255, 0, 0, 0})
	out := Flatten(src, color.NRGBA{B: 255})
	if got := out.Pix[0:4]; got[0] != 255 || got[2] != 0 || got[3] != 255 {
		t.Errorf("opaque pixel = %v", got)
	}
	if got := out.Pix[4:8]; got[0] != 0 || got[2] != 255 || got[3] != 255 {
		t.Errorf("transparent pixel = %v", got)
	}
}
