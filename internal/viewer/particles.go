package viewer

import (
	"fmt"
	"hash/fnv"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/scene"
	"holocard-renderer/internal/shading"
)

// particleLift is the height of particle clouds above the front face.
const particleLift = 0.01

type particleSlot struct {
	anim *shading.Animator
	sig  string // parameters the point set was built from
}

// particleSet keeps one animated field per particle layer.
type particleSet struct {
	slots map[effect.ID]*particleSlot
}

func newParticleSet() *particleSet {
	return &particleSet{slots: map[effect.ID]*particleSlot{}}
}

func (ps *particleSet) reset() {
	clear(ps.slots)
}

// sync creates fields for new particle layers, rebuilds fields whose shape
// parameters changed and drops fields of removed layers. New fields start
// at clock time now.
func (ps *particleSet) sync(layers []effect.Layer, c scene.Card, now float64) {
	live := make(map[effect.ID]bool, len(ps.slots))
	for _, l := range layers {
		pp, ok := l.Params.(*effect.ParticleParams)
		if !ok || l.Kind != effect.Particle {
			continue
		}
		live[l.ID] = true
		sig := fmt.Sprintf("%g/%g/%s", pp.Count, pp.Size, pp.Color)
		slot := ps.slots[l.ID]
		if slot == nil || slot.sig != sig {
			field := shading.NewParticleField(pp, c.W, c.H, c.Depth/2+particleLift, seedFor(l.ID))
			slot = &particleSlot{anim: shading.NewAnimator(field, pp.Speed), sig: sig}
			slot.anim.Seek(now)
			ps.slots[l.ID] = slot
		}
		if slot.anim.Speed != pp.Speed {
			slot.anim.Speed = pp.Speed
			slot.anim.Seek(slot.anim.Elapsed())
		}
	}
	for id := range ps.slots {
		if !live[id] {
			delete(ps.slots, id)
		}
	}
}

// tick advances every field by dt.
func (ps *particleSet) tick(dt float64) {
	for _, s := range ps.slots {
		s.anim.Tick(dt)
	}
}

func (ps *particleSet) field(id effect.ID) *shading.ParticleField {
	if s := ps.slots[id]; s != nil {
		return s.anim.Field
	}
	return nil
}

// seedFor derives a stable seed from a layer id so a layer keeps its
// sparkle pattern across frames and reloads.
func seedFor(id effect.ID) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}
