// Package viewer owns every piece of mutable visual state for one card and
// turns it into a frame on each tick.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/clock"
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/interact"
	"holocard-renderer/internal/material"
	"holocard-renderer/internal/mathutil"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/scene"
	"holocard-renderer/internal/texture"
)

// ErrSurface marks a failure to create the display surface. The viewer
// stays in an error state until Retry succeeds.
var ErrSurface = errors.New("viewer: no display surface")

// Surface displays finished frames.
type Surface interface {
	// Size is the surface size in pixels.
	Size() (w, h int)
	Present(img *image.NRGBA) error
	Close()
}

// SurfaceFactory creates the display surface.
type SurfaceFactory func() (Surface, error)

// Options configures a Viewer.
type Options struct {
	// Width and Height are the output size when there is no surface.
	Width, Height int
	// Supersample renders at this multiple and downsamples.
	Supersample int
	// Interactive enables input and the animation clock. Static viewers
	// render at a fixed rotation and time zero.
	Interactive bool
	// Autoplay starts the clock whenever a card is opened.
	Autoplay    bool
	Transparent bool
	Motion      clock.Motion
	Sensitivity float64
	SceneID     string
	// RevealStep staggers preset reveals by this many seconds per layer;
	// zero applies presets without a reveal.
	RevealStep float64

	Catalog  *preset.Catalog
	Resolver texture.Resolver
	Surface  SurfaceFactory

	OnImageUpdated  func(ref string)
	OnPresetApplied func(id string)
}

// Viewer is the frame-loop owner. Frame, SetCard and the other mutators
// must be called from one goroutine; Post is safe from any goroutine.
type Viewer struct {
	opts Options

	store     *effect.Store
	engine    *preset.Engine
	clock     *clock.Clock
	ctrl      *interact.Controller
	loader    *texture.Loader
	card      scene.Card
	particles *particleSet

	rec       card.Record
	front     *image.NRGBA
	back      *image.NRGBA
	edge      mathutil.RGB
	overrides material.Overrides
	scene     preset.Scene
	classID   string
	wall      float64 // seconds since start, running or not
	resolved  material.State

	loading bool

	surface Surface
	err     error

	postMu sync.Mutex
	posted []func(v *Viewer)
}

// New builds a viewer with an empty layer store. Call SetCard before the
// first Frame.
func New(opts Options) *Viewer {
	if opts.Width <= 0 {
		opts.Width = texture.FallbackWidth
	}
	if opts.Height <= 0 {
		opts.Height = texture.FallbackHeight
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Catalog == nil {
		opts.Catalog = preset.DefaultCatalog()
	}
	if opts.Resolver == nil {
		opts.Resolver = texture.NewCache(nil)
	}

	v := &Viewer{
		opts:      opts,
		store:     effect.NewStore(),
		clock:     clock.New(),
		ctrl:      interact.NewController(),
		loader:    texture.NewLoader(opts.Resolver),
		card:      scene.DefaultCard(),
		particles: newParticleSet(),
		back:      texture.CardBack(),
		classID:   preset.None,
		resolved:  material.Baseline,
	}
	if opts.Sensitivity > 0 {
		v.ctrl.Sensitivity = opts.Sensitivity
	}
	v.engine = preset.NewEngine(v.store, opts.Catalog)
	v.engine.OnApplied(v.presetApplied)
	v.store.Subscribe(v.layersChanged)
	v.scene = opts.Catalog.DefaultScene()
	if sc, ok := opts.Catalog.Scene(opts.SceneID); ok {
		v.scene = sc
	}
	v.setFront(nil)
	return v
}

// Store is the effect layer store. Mutations from other goroutines should
// go through Store().Enqueue or Post.
func (v *Viewer) Store() *effect.Store { return v.store }

func (v *Viewer) Engine() *preset.Engine { return v.engine }

func (v *Viewer) Clock() *clock.Clock { return v.clock }

func (v *Viewer) Controller() *interact.Controller { return v.ctrl }

// Record is the card on display.
func (v *Viewer) Record() card.Record { return v.rec }

// Scene is the active lighting setup.
func (v *Viewer) Scene() preset.Scene { return v.scene }

// Material is the material resolved for the last frame.
func (v *Viewer) Material() material.State { return v.resolved }

// Classification is the preset the live layers match, preset.Custom or
// preset.None.
func (v *Viewer) Classification() string { return v.classID }

// Post queues fn to run at the start of the next frame.
func (v *Viewer) Post(fn func(v *Viewer)) {
	v.postMu.Lock()
	v.posted = append(v.posted, fn)
	v.postMu.Unlock()
}

// Open creates the display surface. On failure the viewer enters the error
// state; the error wraps ErrSurface.
func (v *Viewer) Open() error {
	if v.opts.Surface == nil || v.surface != nil {
		return nil
	}
	s, err := v.opts.Surface()
	if err != nil {
		v.err = fmt.Errorf("%w: %v", ErrSurface, err)
		log.Printf("[VIEWER] %v", v.err)
		return v.err
	}
	v.surface = s
	v.err = nil
	return nil
}

// Err is the error state, nil when the viewer can render.
func (v *Viewer) Err() error { return v.err }

// Retry leaves the error state by creating the surface again.
func (v *Viewer) Retry() error {
	v.err = nil
	return v.Open()
}

// Close releases the surface and abandons any image load.
func (v *Viewer) Close() {
	v.loader.Cancel()
	v.clock.Reset()
	if v.surface != nil {
		v.surface.Close()
		v.surface = nil
	}
}

// SetCard switches to rec. Any in-flight image load is cancelled, the clock
// is reset and interaction starts over. The card starts from its saved
// effect state, or from no layers and no manual overrides.
func (v *Viewer) SetCard(rec card.Record) {
	v.loader.Cancel()
	v.clock.Reset()
	v.ctrl.Reset()
	v.particles.reset()
	v.engine.CancelReveal()
	v.rec = rec
	v.store.ClearAll()
	v.overrides = material.Overrides{}
	v.resolved = material.Baseline

	v.setFront(nil)
	v.loadImage(rec.ImageRef)

	if st, ok, err := rec.EffectState(); err != nil {
		log.Printf("[VIEWER] Card %s: ignoring saved effects: %v", rec.ID, err)
	} else if ok {
		v.Restore(st)
	}

	if v.opts.Interactive && v.opts.Autoplay {
		v.clock.Start()
	}
}

// ReplaceImage swaps the card's image for ref and reports it through
// OnImageUpdated. It also retries a previously failed load.
func (v *Viewer) ReplaceImage(ref string) {
	v.rec.ImageRef = ref
	v.setFront(nil)
	v.loadImage(ref)
	if v.opts.OnImageUpdated != nil {
		v.opts.OnImageUpdated(ref)
	}
}

func (v *Viewer) loadImage(ref string) {
	kind := texture.Classify(ref)
	if !kind.Stable() {
		v.loader.Cancel()
		v.loading = false
		if kind != texture.RefMissing {
			log.Printf("[VIEWER] Card %s: %s image reference, using fallback", v.rec.ID, kind)
		}
		return
	}
	v.loader.Load(ref)
	v.loading = true
}

// WaitImage blocks until the pending image load, if any, has finished and
// installs its result. Static renders call it so thumbnails show the real
// image rather than the fallback.
func (v *Viewer) WaitImage(ctx context.Context) error {
	if !v.loading {
		return nil
	}
	res, err := v.loader.Wait(ctx)
	if err != nil {
		return err
	}
	v.installImage(res)
	return nil
}

func (v *Viewer) setFront(img *image.NRGBA) {
	if img == nil {
		img = texture.Fallback(texture.RarityAccent(v.rec.Rarity))
	}
	v.front = img
	v.edge = texture.AverageColor(img).Scale(0.6)
}

// ApplyPreset applies combo id, with a staggered reveal when RevealStep is
// set on an interactive viewer. Unknown ids are a no-op.
func (v *Viewer) ApplyPreset(id string) bool {
	if v.opts.RevealStep > 0 && v.opts.Interactive {
		return v.engine.ApplyStaggered(id, v.wall, v.opts.RevealStep)
	}
	return v.engine.Apply(id)
}

func (v *Viewer) presetApplied(cb preset.Combo) {
	v.overrides = material.Overrides{}
	if sc, ok := v.opts.Catalog.Scene(cb.SceneID); ok {
		v.scene = sc
	}
	v.classID = cb.ID
	if v.opts.OnPresetApplied != nil {
		v.opts.OnPresetApplied(cb.ID)
	}
}

func (v *Viewer) layersChanged(uint64) {
	id := v.engine.Classify(v.store.List())
	if id == v.classID {
		return
	}
	v.classID = id
	if id == preset.Custom && v.opts.OnPresetApplied != nil {
		v.opts.OnPresetApplied(preset.Custom)
	}
}

// SetOverride installs a manual material edit. It wins until the next
// preset application.
func (v *Viewer) SetOverride(o material.Overrides) {
	merge := func(dst **float64, src *float64) {
		if src != nil {
			*dst = material.Value(*src)
		}
	}
	merge(&v.overrides.Metalness, o.Metalness)
	merge(&v.overrides.Roughness, o.Roughness)
	merge(&v.overrides.Clearcoat, o.Clearcoat)
	merge(&v.overrides.Transmission, o.Transmission)
	merge(&v.overrides.Emission, o.Emission)
}

// ClearOverrides drops every manual material edit.
func (v *Viewer) ClearOverrides() {
	v.overrides = material.Overrides{}
}

// Overrides returns the manual material edits in force.
func (v *Viewer) Overrides() material.Overrides { return v.overrides }

// SetScene switches lighting. Unknown ids are ignored.
func (v *Viewer) SetScene(id string) bool {
	sc, ok := v.opts.Catalog.Scene(id)
	if ok {
		v.scene = sc
	}
	return ok
}

// Snapshot captures the effect state for saving.
func (v *Viewer) Snapshot() card.EffectState {
	id := v.engine.Classify(v.store.List())
	if id == preset.Custom || id == preset.None {
		id = ""
	}
	return card.Capture(v.store.List(), v.overrides, id)
}

// Restore replaces layers and manual overrides with st.
func (v *Viewer) Restore(st card.EffectState) {
	v.engine.CancelReveal()
	v.store.Replace(st.Layers)
	v.overrides = st.ManualOverrides()
	v.resolved = material.Resolve(v.store.List(), v.overrides)
}
