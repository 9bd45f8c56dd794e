package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Flatten composites img over a solid background and returns an opaque
// copy. Terminal output has no alpha channel.
func Flatten(img *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	bg.A = 255
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
