package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxSize bounds the longest side of a decoded card image; larger images are
// scaled down on load.
const MaxSize = 1024

// maxBytes caps downloads and inline payloads.
const maxBytes = 32 << 20

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Decode decodes PNG, JPEG, GIF, BMP, WebP or TGA data into NRGBA.
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return fit(toNRGBA(img), MaxSize), nil
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("texture: %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return img, nil
}

// Fetch downloads and decodes an image over HTTP(S).
func Fetch(ctx context.Context, rawURL string) (*image.NRGBA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: %w: %v", ErrMalformed, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", redact(rawURL), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("texture: fetch %s: %w", redact(rawURL), ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("texture: fetch %s: status %d", redact(rawURL), resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", redact(rawURL), err)
	}
	return Decode(raw)
}

// DecodeDataURI decodes a base64 "data:" URI.
func DecodeDataURI(ref string) (*image.NRGBA, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, ErrMalformed
	}
	meta, payload := ref[:comma], ref[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URI is not base64", ErrUnsupported)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes {
		return nil, fmt.Errorf("texture: data URI too large")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(raw)
}

// redact drops query strings, which often carry signed tokens.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// toNRGBA converts any image to NRGBA format with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// fit scales img down so its longest side is at most limit.
func fit(img *image.NRGBA, limit int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= limit && h <= limit {
		return img
	}
	scale := float64(limit) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
