package viewer

import (
	"image"
	"log"
	"math"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/interact"
	"holocard-renderer/internal/material"
	"holocard-renderer/internal/mathutil"
	"holocard-renderer/internal/postprocess"
	"holocard-renderer/internal/raster"
	"holocard-renderer/internal/scene"
	"holocard-renderer/internal/texture"
)

// Frame advances dt seconds and renders. Work posted since the last frame
// and queued store mutations are applied first, so the whole frame sees
// one consistent snapshot. In the error state Frame renders nothing and
// returns the error.
func (v *Viewer) Frame(dt float64) (*image.NRGBA, error) {
	if v.err != nil {
		return nil, v.err
	}
	if !(dt >= 0) || math.IsInf(dt, 0) {
		dt = 0
	}

	v.runPosted()
	v.store.Commit()
	v.pollImage()

	var t float64
	st := v.ctrl.State()
	if v.opts.Interactive {
		v.wall += dt
		if v.clock.Running() {
			v.particles.tick(v.clock.Tick(dt))
			t = v.clock.Elapsed()
			if v.ctrl.Phase() == interact.Idle {
				v.ctrl.Spin(v.opts.Motion.RotationDelta(dt))
			}
		} else {
			t = v.clock.Elapsed()
		}
		st = v.ctrl.State()
	} else {
		st = interact.DefaultState()
		st.Rotation = scene.StaticRotation
	}

	layers := v.store.List()
	v.resolved = material.Resolve(layers, v.overrides)
	v.particles.sync(layers, v.card, t)

	fs := scene.FrameState{
		Card:        v.card,
		Layers:      layers,
		Material:    v.resolved,
		Interaction: st,
		Motion:      v.opts.Motion,
		Time:        t,
		Particles:   v.particles.field,
		Reveal: func(id effect.ID) float64 {
			return v.engine.RevealFactor(id, v.wall)
		},
	}
	if !v.opts.Interactive {
		fs.Motion.Float, fs.Motion.Pulse = false, false
	}

	w, h := v.outputSize()
	img := v.render(fs, st.Zoom, w, h)

	if v.surface != nil {
		if err := v.surface.Present(img); err != nil {
			log.Printf("[VIEWER] Present failed: %v", err)
			return img, err
		}
	}
	return img, nil
}

func (v *Viewer) render(fs scene.FrameState, zoom float64, w, h int) *image.NRGBA {
	ss := v.opts.Supersample
	rw, rh := w*ss, h*ss

	light := raster.NewLightConfig(v.scene.Ambient, v.scene.Directional, v.scene.Kelvin, v.scene.Shadow)
	frame := &raster.Frame{
		Items:       scene.Build(fs),
		Card:        fs.Card,
		Front:       v.front,
		Back:        v.back,
		EdgeColor:   v.edge,
		Surface:     scene.SurfaceLayers(fs.Layers, fs.Reveal),
		Time:        fs.Time,
		Light:       light,
		Background:  mathutil.HexRGB(v.scene.Background, mathutil.RGB{R: 0.06, G: 0.06, B: 0.08}),
		Transparent: v.opts.Transparent,
	}
	img := raster.RenderImage(rw, rh, raster.NewCamera(rw, rh, zoom), frame)
	if ss > 1 {
		img = postprocess.Downsample(img, w, h)
	}
	return img
}

func (v *Viewer) outputSize() (int, int) {
	if v.surface != nil {
		if w, h := v.surface.Size(); w > 0 && h > 0 {
			return w, h
		}
	}
	return v.opts.Width, v.opts.Height
}

func (v *Viewer) runPosted() {
	v.postMu.Lock()
	posted := v.posted
	v.posted = nil
	v.postMu.Unlock()
	if len(posted) == 0 {
		return
	}
	v.store.Batch(func(*effect.Store) {
		for _, fn := range posted {
			fn(v)
		}
	})
}

// pollImage installs a finished image load. Failures keep the fallback.
func (v *Viewer) pollImage() {
	res, ok := v.loader.Poll()
	if !ok {
		return
	}
	v.installImage(res)
}

func (v *Viewer) installImage(res texture.Result) {
	v.loading = false
	if res.Err != nil {
		log.Printf("[VIEWER] Card %s: image load failed, using fallback: %v", v.rec.ID, res.Err)
		return
	}
	v.setFront(res.Img)
}
