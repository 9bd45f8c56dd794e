package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"holocard-renderer/internal/mathutil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want RefKind
	}{
		{"", RefMissing},
		{"   ", RefMissing},
		{"blob:https://example.com/1234", RefEphemeral},
		{"capacitor://localhost/_capacitor_file_/x.png", RefEphemeral},
		{"https://cdn.example.com/card.png", RefURL},
		{"http://", RefMalformed},
		{"file:///tmp/card.png", RefFile},
		{"cards/pikachu.png", RefFile},
		{"sha256:" + strings.Repeat("ab", 32), RefContent},
		{"sha256:xyz", RefMalformed},
		{"data:image/png;base64,AAAA", RefData},
		{"data:image/png", RefMalformed},
		{"ftp://example.com/x.png", RefMalformed},
	}
	for _, tt := range tests {
		if got := Classify(tt.ref); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
	if RefEphemeral.Stable() || !RefData.Stable() {
		t.Error("Stable misreports")
	}
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeDataURI(t *testing.T) {
	raw := pngBytes(t, 4, 6, color.NRGBA{R: 200, A: 255})
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	img, err := DecodeDataURI(ref)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if img.Rect.Dx() != 4 || img.Rect.Dy() != 6 {
		t.Errorf("size = %v", img.Rect)
	}
	if img.Pix[0] != 200 {
		t.Errorf("red = %d", img.Pix[0])
	}
	if _, err := DecodeDataURI("data:text/plain,hello"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("plain data URI err = %v", err)
	}
}

func TestDecodeScalesDown(t *testing.T) {
	raw := pngBytes(t, MaxSize*2, MaxSize, color.NRGBA{G: 255, A: 255})
	img, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() != MaxSize || img.Rect.Dy() != MaxSize/2 {
		t.Errorf("size = %v", img.Rect)
	}
	if _, err := Decode([]byte("not an image")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("garbage err = %v", err)
	}
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	hex := strings.Repeat("0f", 32)
	raw := pngBytes(t, 2, 2, color.NRGBA{B: 255, A: 255})
	if err := os.WriteFile(filepath.Join(dir, hex+".png"), raw, 0644); err != nil {
		t.Fatal(err)
	}
	idx := BuildIndex(dir)
	if idx.Len() != 1 {
		t.Fatalf("index len = %d", idx.Len())
	}
	c := NewCache(idx)
	ctx := context.Background()

	a, err := c.Resolve(ctx, "sha256:"+hex)
	if err != nil {
		t.Fatalf("content ref: %v", err)
	}
	b, _ := c.Resolve(ctx, "sha256:"+hex)
	if a != b {
		t.Error("second resolve not served from cache")
	}
	if _, err := c.Resolve(ctx, filepath.Join(dir, hex+".png")); err != nil {
		t.Errorf("file ref: %v", err)
	}

	tests := []struct {
		ref  string
		want error
	}{
		{"", ErrMissing},
		{"blob:abc", ErrEphemeral},
		{"sha256:" + strings.Repeat("11", 32), ErrNotFound},
		{filepath.Join(dir, "missing.png"), ErrNotFound},
	}
	for _, tt := range tests {
		if _, err := c.Resolve(ctx, tt.ref); !errors.Is(err, tt.want) {
			t.Errorf("Resolve(%q) err = %v, want %v", tt.ref, err, tt.want)
		}
	}
}

func TestFallback(t *testing.T) {
	img := Fallback(RarityAccent("rare"))
	if img.Rect.Dx() != FallbackWidth || img.Rect.Dy() != FallbackHeight {
		t.Errorf("size = %v", img.Rect)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatal("fallback is not opaque")
		}
	}
	if RarityAccent("legendary") == RarityAccent("mystery") {
		t.Error("legendary should have its own accent")
	}
	avg := AverageColor(Fallback(mathutil.RGB{R: 1}))
	if avg.R <= avg.B {
		t.Errorf("average of red fallback = %v", avg)
	}
	back := CardBack()
	if back.Rect.Dx() != FallbackWidth {
		t.Errorf("card back width = %d", back.Rect.Dx())
	}
}

// gated resolves each ref only after its gate is closed.
type gated struct {
	gates map[string]chan struct{}
}

func (g gated) Resolve(ctx context.Context, ref string) (*image.NRGBA, error) {
	select {
	case <-g.gates[ref]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = ref[0]
	return img, nil
}

func TestLoaderDropsStale(t *testing.T) {
	g := gated{gates: map[string]chan struct{}{
		"a": make(chan struct{}),
		"b": make(chan struct{}),
	}}
	l := NewLoader(g)
	l.Load("a")
	gen := l.Load("b")

	close(g.gates["a"])
	if _, ok := l.Poll(); ok {
		t.Fatal("stale result delivered")
	}
	close(g.gates["b"])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := l.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.Gen != gen || res.Ref != "b" || res.Img.Pix[0] != 'b' {
		t.Errorf("got %+v, want gen %d ref b", res, gen)
	}
}

func TestLoaderCancel(t *testing.T) {
	g := gated{gates: map[string]chan struct{}{"a": make(chan struct{})}}
	l := NewLoader(g)
	l.Load("a")
	l.Cancel()
	close(g.gates["a"])
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait after Cancel err = %v", err)
	}
}
