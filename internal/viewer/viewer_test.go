package viewer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/material"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/texture"
)

func newTestViewer(opts Options) *Viewer {
	if opts.Width == 0 {
		opts.Width, opts.Height = 50, 70
	}
	return New(opts)
}

func TestChromePresetIsExact(t *testing.T) {
	var applied []string
	v := newTestViewer(Options{OnPresetApplied: func(id string) { applied = append(applied, id) }})
	v.SetCard(card.Record{ID: "c1"})
	if !v.ApplyPreset("chrome") {
		t.Fatal("chrome preset not applied")
	}
	if _, err := v.Frame(0); err != nil {
		t.Fatal(err)
	}
	m := v.Material()
	if m.Metalness != 1.0 || m.Roughness != 0.0 {
		t.Errorf("material = %+v, want metalness 1 roughness 0", m)
	}
	if v.Classification() != "chrome" {
		t.Errorf("classification = %s", v.Classification())
	}
	if v.Scene().ID != "gallery" {
		t.Errorf("scene = %s", v.Scene().ID)
	}
	if len(applied) != 1 || applied[0] != "chrome" {
		t.Errorf("callbacks = %v", applied)
	}
}

func TestCustomAfterEdit(t *testing.T) {
	var applied []string
	v := newTestViewer(Options{OnPresetApplied: func(id string) { applied = append(applied, id) }})
	v.SetCard(card.Record{ID: "c1"})
	v.ApplyPreset("holographic")
	holo, _ := v.Store().FirstOfKind(effect.Holographic)
	v.Store().SetParam(holo.ID, "intensity", 10.0)
	if v.Classification() != preset.Custom {
		t.Errorf("classification = %s", v.Classification())
	}
	if len(applied) != 2 || applied[1] != preset.Custom {
		t.Errorf("callbacks = %v", applied)
	}
	if v.Snapshot().PresetID != nil {
		t.Error("custom state should persist a null preset")
	}
}

func TestEphemeralImageUsesFallback(t *testing.T) {
	v := newTestViewer(Options{})
	v.SetCard(card.Record{ID: "c1", ImageRef: "blob:https://app.local/4f2a", Rarity: "rare"})
	if err := v.WaitImage(context.Background()); err != nil {
		t.Fatalf("WaitImage: %v", err)
	}
	img, err := v.Frame(0)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if img.Rect.Dx() != 50 || img.Rect.Dy() != 70 {
		t.Errorf("size = %v", img.Rect)
	}
	if v.front.Rect.Dx() != texture.FallbackWidth {
		t.Error("front is not the fallback")
	}
}

// gatedResolver blocks each ref until its gate closes, then returns an
// image whose width identifies the ref.
type gatedResolver struct {
	gates map[string]chan struct{}
	sizes map[string]int
}

func (g gatedResolver) Resolve(ctx context.Context, ref string) (*image.NRGBA, error) {
	select {
	case <-g.gates[ref]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return image.NewNRGBA(image.Rect(0, 0, g.sizes[ref], 4)), nil
}

func TestStaleLoadRejected(t *testing.T) {
	g := gatedResolver{
		gates: map[string]chan struct{}{
			"https://img.example/a.png": make(chan struct{}),
			"https://img.example/b.png": make(chan struct{}),
		},
		sizes: map[string]int{"https://img.example/a.png": 3, "https://img.example/b.png": 7},
	}
	v := newTestViewer(Options{Resolver: g})
	v.SetCard(card.Record{ID: "a", ImageRef: "https://img.example/a.png"})
	v.SetCard(card.Record{ID: "b", ImageRef: "https://img.example/b.png"})

	close(g.gates["https://img.example/a.png"])
	v.Frame(0)
	if v.front.Rect.Dx() == 3 {
		t.Fatal("stale image installed")
	}
	close(g.gates["https://img.example/b.png"])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := v.WaitImage(ctx); err != nil {
		t.Fatalf("WaitImage: %v", err)
	}
	if v.front.Rect.Dx() != 7 {
		t.Errorf("front width = %d, want 7", v.front.Rect.Dx())
	}
}

func TestPostedTogglesCoalesce(t *testing.T) {
	v := newTestViewer(Options{})
	v.SetCard(card.Record{ID: "c1"})
	id := v.Store().Add(effect.Holographic)
	var notes int
	v.Store().Subscribe(func(uint64) { notes++ })

	for i := range 6 {
		enabled := i%2 == 0
		v.Post(func(v *Viewer) { v.Store().SetVisibility(id, enabled) })
	}
	if _, err := v.Frame(0); err != nil {
		t.Fatal(err)
	}
	if notes != 1 {
		t.Errorf("notifications = %d, want 1", notes)
	}
	l, _ := v.Store().Get(id)
	if l.Enabled {
		t.Error("last toggle (disabled) should win")
	}
}

type fakeSurface struct {
	w, h     int
	frames   int
	closed   bool
	presentE error
}

func (f *fakeSurface) Size() (int, int) { return f.w, f.h }
func (f *fakeSurface) Present(*image.NRGBA) error {
	f.frames++
	return f.presentE
}
func (f *fakeSurface) Close() { f.closed = true }

func TestSurfaceErrorAndRetry(t *testing.T) {
	surf := &fakeSurface{w: 30, h: 40}
	fail := true
	v := newTestViewer(Options{
		Interactive: true,
		Surface: func() (Surface, error) {
			if fail {
				return nil, errors.New("no terminal")
			}
			return surf, nil
		},
	})
	v.SetCard(card.Record{ID: "c1"})
	if err := v.Open(); !errors.Is(err, ErrSurface) {
		t.Fatalf("Open err = %v", err)
	}
	if _, err := v.Frame(0.016); !errors.Is(err, ErrSurface) {
		t.Errorf("Frame in error state err = %v", err)
	}
	fail = false
	if err := v.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	img, err := v.Frame(0.016)
	if err != nil {
		t.Fatal(err)
	}
	if img.Rect.Dx() != 30 || img.Rect.Dy() != 40 || surf.frames != 1 {
		t.Errorf("size %v, frames %d", img.Rect, surf.frames)
	}
	v.Close()
	if !surf.closed {
		t.Error("surface not closed")
	}
}

func TestStaticFrameIsDeterministic(t *testing.T) {
	render := func() *image.NRGBA {
		v := newTestViewer(Options{Supersample: 2, Transparent: true})
		v.SetCard(card.Record{ID: "c1", Rarity: "epic"})
		v.ApplyPreset("cosmic")
		img, err := v.Frame(0.5)
		if err != nil {
			t.Fatal(err)
		}
		return img
	}
	a, b := render(), render()
	if a.Rect.Dx() != 50 || a.Rect.Dy() != 70 {
		t.Fatalf("size = %v", a.Rect)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("static renders differ at byte %d", i)
		}
	}
}

func TestSavedStateRestoresOnSetCard(t *testing.T) {
	src := newTestViewer(Options{})
	src.SetCard(card.Record{ID: "c1"})
	src.ApplyPreset("golden")
	src.SetOverride(material.Overrides{Emission: material.Value(0.4)})
	src.Frame(0)
	rec, err := card.Record{ID: "c1"}.WithEffectState(src.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestViewer(Options{})
	dst.SetCard(rec)
	dst.Frame(0)
	if dst.Material() != src.Material() {
		t.Errorf("material %+v, want %+v", dst.Material(), src.Material())
	}
	if dst.Classification() != "golden" {
		t.Errorf("classification = %s", dst.Classification())
	}
	if dst.Store().Len() != src.Store().Len() {
		t.Errorf("layers = %d, want %d", dst.Store().Len(), src.Store().Len())
	}
}

func TestStaggeredPresetStateIsFinal(t *testing.T) {
	v := newTestViewer(Options{Interactive: true, RevealStep: 0.5})
	v.SetCard(card.Record{ID: "c1"})
	v.ApplyPreset("cosmic")
	if !v.Engine().Matches(v.Store().List(), "cosmic") {
		t.Fatal("layers not final right after apply")
	}
	layers := v.Store().List()
	last := layers[len(layers)-1].ID
	if f := v.Engine().RevealFactor(last, v.wall); f != 0 {
		t.Errorf("last layer factor at start = %v", f)
	}
	for range 10 {
		v.Frame(0.25)
	}
	if f := v.Engine().RevealFactor(last, v.wall); f != 1 {
		t.Errorf("last layer factor after reveal = %v", f)
	}
}

func TestParticlesFollowLayers(t *testing.T) {
	v := newTestViewer(Options{Interactive: true, Autoplay: true})
	v.SetCard(card.Record{ID: "c1"})
	id := v.Store().Add(effect.Particle)
	v.Frame(0.1)
	f := v.particles.field(id)
	if f == nil || len(f.Points) != 120 {
		t.Fatalf("field = %v", f)
	}
	v.Store().SetParam(id, "count", 10.0)
	v.Frame(0.1)
	if n := len(v.particles.field(id).Points); n != 10 {
		t.Errorf("points after count change = %d", n)
	}
	v.Store().Remove(id)
	v.Frame(0.1)
	if v.particles.field(id) != nil {
		t.Error("field kept after layer removal")
	}
}

func TestReplaceImageNotifies(t *testing.T) {
	var refs []string
	v := newTestViewer(Options{OnImageUpdated: func(ref string) { refs = append(refs, ref) }})
	v.SetCard(card.Record{ID: "c1"})
	v.ReplaceImage("tmp:capture-17")
	if len(refs) != 1 || refs[0] != "tmp:capture-17" {
		t.Errorf("callbacks = %v", refs)
	}
	if v.Record().ImageRef != "tmp:capture-17" {
		t.Errorf("ImageRef = %s", v.Record().ImageRef)
	}
	if _, err := v.Frame(0); err != nil {
		t.Fatal(err)
	}
}

func animatedViewer(t *testing.T) *Viewer {
	t.Helper()
	v := newTestViewer(Options{
		Interactive: true,
		Autoplay:    true,
		Motion:      clock.Motion{Float: true, FloatAmplitude: 0.2},
	})
	v.SetCard(card.Record{ID: "c1"})
	v.Store().Add(effect.Holographic)
	return v
}

func frameBytes(t *testing.T, v *Viewer, dt float64) []byte {
	t.Helper()
	img, err := v.Frame(dt)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.Clone(img.Pix)
}

func TestRunningFrameUsesElapsedTime(t *testing.T) {
	v := animatedViewer(t)
	var running []byte
	for range 4 {
		running = frameBytes(t, v, 0.5)
	}
	if got := v.Clock().Elapsed(); got != 2 {
		t.Fatalf("elapsed = %v, want 2", got)
	}

	v.Clock().Stop()
	paused := frameBytes(t, v, 0)
	if !bytes.Equal(running, paused) {
		t.Error("running frame at elapsed 2 differs from paused frame at elapsed 2")
	}
}

func TestRunningFramesAnimate(t *testing.T) {
	v := animatedViewer(t)
	a := frameBytes(t, v, 0.25)
	b := frameBytes(t, v, 0.25)
	if bytes.Equal(a, b) {
		t.Error("consecutive running frames are identical")
	}
}

func TestPresetMaterialFollowsLayers(t *testing.T) {
	tests := []struct {
		name  string
		after func(v *Viewer)
	}{
		{"all layers disabled", func(v *Viewer) {
			for _, l := range v.Store().List() {
				v.Store().SetVisibility(l.ID, false)
			}
		}},
		{"all layers removed", func(v *Viewer) { v.Store().ClearAll() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViewer(Options{})
			v.SetCard(card.Record{ID: "c1"})
			v.ApplyPreset("chrome")
			tt.after(v)
			if _, err := v.Frame(0); err != nil {
				t.Fatal(err)
			}
			if v.Material() != material.Baseline {
				t.Errorf("material = %+v, want baseline", v.Material())
			}
			if !v.Overrides().Empty() {
				t.Errorf("preset left overrides %+v", v.Overrides())
			}
			if v.Classification() != preset.None {
				t.Errorf("classification = %s", v.Classification())
			}
		})
	}
}

func TestSetCardStartsClean(t *testing.T) {
	v := newTestViewer(Options{})
	v.SetCard(card.Record{ID: "a"})
	v.ApplyPreset("golden")
	v.SetOverride(material.Overrides{Emission: material.Value(0.7)})
	v.Frame(0)

	v.SetCard(card.Record{ID: "b"})
	if n := v.Store().Len(); n != 0 {
		t.Errorf("layers carried over: %d", n)
	}
	if !v.Overrides().Empty() {
		t.Errorf("overrides carried over: %+v", v.Overrides())
	}
	v.Frame(0)
	if v.Material() != material.Baseline || v.Classification() != preset.None {
		t.Errorf("material %+v classification %s", v.Material(), v.Classification())
	}
}

func TestParticleLayerJoinsClockTime(t *testing.T) {
	v := newTestViewer(Options{Interactive: true, Autoplay: true})
	v.SetCard(card.Record{ID: "c1"})
	v.Frame(1)
	v.Frame(1)

	id := v.Store().Add(effect.Particle)
	v.Frame(0)
	slot := v.particles.slots[id]
	if slot == nil {
		t.Fatal("no particle field")
	}
	if got := slot.anim.Elapsed(); got != v.Clock().Elapsed() {
		t.Errorf("field time = %v, clock = %v", got, v.Clock().Elapsed())
	}
	v.Frame(0.5)
	if got := slot.anim.Elapsed(); got != v.Clock().Elapsed() {
		t.Errorf("after tick field time = %v, clock = %v", got, v.Clock().Elapsed())
	}
}
