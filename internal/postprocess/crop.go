package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// CropAndCenter crops to the bounding box of non-transparent pixels, then
// scales the silhouette to fillRatio of a w×h canvas and centers it.
func CropAndCenter(img *image.NRGBA, w, h int, fillRatio float64) *image.NRGBA {
	return scaleAndCenter(cropAlpha(img), w, h, fillRatio)
}

func cropAlpha(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			if img.Pix[row+x*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX || maxY < minY {
		return img
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := (minY+y)*img.Stride + minX*4
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped
}

func scaleAndCenter(img *image.NRGBA, canvasW, canvasH int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return canvas
	}
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = 1
	}

	// Scale to fit within fillRatio of the canvas
	scaleF := math.Min(float64(canvasW)*fillRatio/float64(srcW), float64(canvasH)*fillRatio/float64(srcH))
	newW := max(1, int(float64(srcW)*scaleF+0.5))
	newH := max(1, int(float64(srcH)*scaleF+0.5))

	offX := (canvasW - newW) / 2
	offY := (canvasH - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, b, draw.Src, nil)
	return canvas
}
