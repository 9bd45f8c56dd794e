package preset

import (
	"math"
	"reflect"
	"slices"
	"sync"

	"holocard-renderer/internal/effect"
)

// Tolerance is the match tolerance on a 0–100 scale; other ranges scale it
// proportionally.
const Tolerance = 5.0

// Engine applies combos to a store.
type Engine struct {
	store   *effect.Store
	catalog *Catalog

	mu        sync.Mutex
	reveal    *Reveal
	onApplied []func(c Combo)
}

// NewEngine binds a catalog to a store.
func NewEngine(store *effect.Store, catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{store: store, catalog: catalog}
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// OnApplied registers fn to run after every successful Apply.
func (e *Engine) OnApplied(fn func(c Combo)) {
	e.mu.Lock()
	e.onApplied = append(e.onApplied, fn)
	e.mu.Unlock()
}

// Apply replaces the store's layers with the combo's: one enabled layer per
// declared kind, parameters merged over defaults, every other layer removed.
// An unknown id is a no-op and reports false. Subscribers see one change.
func (e *Engine) Apply(id string) bool {
	cb, ok := e.catalog.Combo(id)
	if !ok {
		return false
	}
	e.store.Batch(func(s *effect.Store) {
		s.Replace(Layers(cb, s.List()))
	})

	e.mu.Lock()
	e.reveal = nil
	hooks := slices.Clone(e.onApplied)
	e.mu.Unlock()
	for _, fn := range hooks {
		fn(cb)
	}
	return true
}

// Layers computes the layer list cb produces from current. Existing layers
// of a declared kind keep their id, blend mode and unknown keys.
func Layers(cb Combo, current []effect.Layer) []effect.Layer {
	used := make([]bool, len(current))
	out := make([]effect.Layer, 0, len(cb.Effects))
	for _, spec := range cb.Effects {
		if !spec.Kind.Valid() {
			continue
		}
		l := effect.NewLayer("", spec.Kind)
		for i, cur := range current {
			if !used[i] && cur.Kind == spec.Kind {
				used[i] = true
				l.ID = cur.ID
				l.Blend = cur.Blend
				l.Extra = cur.Clone().Extra
				break
			}
		}
		l.SetParams(spec.Params)
		out = append(out, l)
	}
	return out
}

// ApplyStaggered applies id at once and starts a reveal that fades the new
// layers in one after another, step seconds apart, from clock time now.
// Calling it again (or Apply) abandons the previous reveal.
func (e *Engine) ApplyStaggered(id string, now, step float64) bool {
	if !e.Apply(id) {
		return false
	}
	layers := e.store.List()
	ids := make([]effect.ID, len(layers))
	for i, l := range layers {
		ids[i] = l.ID
	}
	e.mu.Lock()
	e.reveal = NewReveal(ids, now, step)
	e.mu.Unlock()
	return true
}

// RevealFactor is the visual weight multiplier for layer id at clock time
// now: 1 when no reveal is in progress.
func (e *Engine) RevealFactor(id effect.ID, now float64) float64 {
	e.mu.Lock()
	r := e.reveal
	e.mu.Unlock()
	if r == nil {
		return 1
	}
	return r.Factor(id, now)
}

// CancelReveal ends any reveal; all layers show at full weight.
func (e *Engine) CancelReveal() {
	e.mu.Lock()
	e.reveal = nil
	e.mu.Unlock()
}

// Matches reports whether layers still realise combo id.
func (e *Engine) Matches(layers []effect.Layer, id string) bool {
	cb, ok := e.catalog.Combo(id)
	if !ok {
		return false
	}
	return Matches(layers, cb)
}

// Classify returns the first combo the layers match, Custom when some layer
// is enabled, or None.
func (e *Engine) Classify(layers []effect.Layer) string {
	for _, cb := range e.catalog.combos {
		if Matches(layers, cb) {
			return cb.ID
		}
	}
	for _, l := range layers {
		if l.Enabled {
			return Custom
		}
	}
	return None
}

// Matches reports whether every declared kind has a distinct enabled layer
// whose declared parameters are within tolerance, with no other enabled
// layers present.
func Matches(layers []effect.Layer, cb Combo) bool {
	var enabled []effect.Layer
	for _, l := range layers {
		if l.Enabled {
			enabled = append(enabled, l)
		}
	}
	if len(enabled) != len(cb.Effects) {
		return false
	}
	used := make([]bool, len(enabled))
	for _, spec := range cb.Effects {
		found := false
		for i, l := range enabled {
			if used[i] || l.Kind != spec.Kind {
				continue
			}
			if paramsMatch(l, spec) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func paramsMatch(l effect.Layer, spec EffectSpec) bool {
	// Normalize the declared values the same way a write would.
	want := effect.NewLayer("", spec.Kind)
	want.SetParams(spec.Params)
	wantVals := want.Values()
	have := l.Values()
	for name := range spec.Params {
		w, h := wantVals[name], have[name]
		wf, wNum := w.(float64)
		hf, hNum := h.(float64)
		if wNum && hNum {
			tol := Tolerance
			if lo, hi, ok := effect.Range(spec.Kind, name); ok {
				tol = Tolerance * (hi - lo) / 100
			}
			if math.Abs(wf-hf) > tol+1e-9 {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(w, h) {
			return false
		}
	}
	return true
}
