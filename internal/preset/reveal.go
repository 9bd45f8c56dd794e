package preset

import (
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
)

// Reveal is a purely visual stagger: layer i fades in over one step starting
// at start + i*step. It never changes store state.
type Reveal struct {
	order map[effect.ID]int
	start float64
	step  float64
}

func NewReveal(ids []effect.ID, start, step float64) *Reveal {
	order := make(map[effect.ID]int, len(ids))
	for i, id := range ids {
		order[id] = i
	}
	return &Reveal{order: order, start: start, step: step}
}

// Factor is the fade-in weight of id at time now. Layers not part of the
// reveal show fully.
func (r *Reveal) Factor(id effect.ID, now float64) float64 {
	i, ok := r.order[id]
	if !ok || r.step <= 0 {
		return 1
	}
	begin := r.start + float64(i)*r.step
	return mathutil.Clamp01((now - begin) / r.step)
}

// Done reports whether every layer is fully shown at time now.
func (r *Reveal) Done(now float64) bool {
	return now >= r.start+float64(len(r.order))*r.step
}
