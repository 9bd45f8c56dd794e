package effect

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Mutation is a deferred store edit, applied by Commit.
type Mutation func(s *Store)

// Store is the ordered list of effect layers and the single source of truth
// for which effects are active. Index 0 is the bottom of the compositing
// order.
//
// Direct mutating calls notify subscribers immediately. Edits produced
// outside the frame loop should go through Enqueue so that a whole frame
// observes one consistent snapshot; Commit drains the queue and notifies once.
type Store struct {
	mu       sync.RWMutex
	layers   []Layer
	nextID   int
	version  uint64
	batching bool
	dirty    bool

	subMu   sync.Mutex
	subs    map[int]func(version uint64)
	nextSub int

	qMu     sync.Mutex
	pending []Mutation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(uint64))}
}

// Subscribe registers fn for change notifications. The returned func
// removes it.
func (s *Store) Subscribe(fn func(version uint64)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Version increases on every change.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of layers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// List returns a deep-copied, ordered snapshot.
func (s *Store) List() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Clone()
	}
	return out
}

// Get returns a copy of the layer with the given id.
func (s *Store) Get(id ID) (Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.layers[i].Clone(), true
	}
	return Layer{}, false
}

// FirstOfKind returns the lowest layer of kind k.
func (s *Store) FirstOfKind(k Kind) (Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.layers {
		if l.Kind == k {
			return l.Clone(), true
		}
	}
	return Layer{}, false
}

// Add appends a layer of kind k with its default parameters on top of the
// stack and returns its id. An invalid kind yields "".
func (s *Store) Add(k Kind) ID {
	if !k.Valid() {
		return ""
	}
	s.mu.Lock()
	id := s.newID()
	s.layers = append(s.layers, NewLayer(id, k))
	s.mu.Unlock()
	s.changed()
	return id
}

// Update merges patch into layer id. Unknown ids are ignored and reported
// as false.
func (s *Store) Update(id ID, patch Patch) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	patch.apply(&s.layers[i])
	s.mu.Unlock()
	s.changed()
	return true
}

// SetParam writes a single parameter of layer id.
func (s *Store) SetParam(id ID, name string, v any) bool {
	return s.Update(id, Patch{Params: map[string]any{name: v}})
}

// SetOpacity writes a clamped opacity.
func (s *Store) SetOpacity(id ID, opacity float64) bool {
	return s.Update(id, Patch{Opacity: &opacity})
}

// SetBlend changes the blend mode of layer id.
func (s *Store) SetBlend(id ID, b BlendMode) bool {
	return s.Update(id, Patch{Blend: &b})
}

// SetVisibility enables or disables layer id.
func (s *Store) SetVisibility(id ID, enabled bool) bool {
	return s.Update(id, Patch{Enabled: &enabled})
}

// Remove deletes layer id.
func (s *Store) Remove(id ID) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	s.mu.Unlock()
	s.changed()
	return true
}

// Move places layer id at index to (clamped) in the compositing order.
func (s *Store) Move(id ID, to int) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	l := s.layers[i]
	s.layers = slices.Delete(s.layers, i, i+1)
	to = max(0, min(to, len(s.layers)))
	s.layers = slices.Insert(s.layers, to, l)
	s.mu.Unlock()
	s.changed()
	return true
}

// ClearAll removes every layer.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.layers = nil
	s.mu.Unlock()
	s.changed()
}

// Replace swaps in a whole layer list. Layers with an invalid kind are
// dropped; missing or duplicate ids are reassigned.
func (s *Store) Replace(layers []Layer) {
	s.mu.Lock()
	seen := make(map[ID]bool, len(layers))
	for _, l := range layers {
		s.bumpNextID(l.ID)
	}
	next := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if !l.Kind.Valid() {
			continue
		}
		l = l.Clone()
		if l.ID == "" || seen[l.ID] {
			l.ID = s.newID()
		}
		seen[l.ID] = true
		l.normalize()
		next = append(next, l)
	}
	s.layers = next
	s.mu.Unlock()
	s.changed()
}

// Enqueue defers m to the next Commit. Safe from any goroutine.
func (s *Store) Enqueue(m Mutation) {
	s.qMu.Lock()
	s.pending = append(s.pending, m)
	s.qMu.Unlock()
}

// Pending reports the number of queued mutations.
func (s *Store) Pending() int {
	s.qMu.Lock()
	defer s.qMu.Unlock()
	return len(s.pending)
}

// Commit applies all queued mutations in order and notifies subscribers at
// most once. It reports whether anything changed.
func (s *Store) Commit() bool {
	s.qMu.Lock()
	queue := s.pending
	s.pending = nil
	s.qMu.Unlock()
	if len(queue) == 0 {
		return false
	}
	return s.Batch(func(s *Store) {
		for _, m := range queue {
			m(s)
		}
	})
}

// Batch runs fn with notifications coalesced into one and reports whether
// fn changed anything.
func (s *Store) Batch(fn func(s *Store)) bool {
	s.mu.Lock()
	nested := s.batching
	s.batching = true
	s.mu.Unlock()

	fn(s)

	if nested {
		return false
	}
	s.mu.Lock()
	s.batching = false
	dirty := s.dirty
	s.dirty = false
	s.mu.Unlock()

	if dirty {
		s.notify()
	}
	return dirty
}

func (s *Store) changed() {
	s.mu.Lock()
	s.version++
	if s.batching {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	v := s.Version()
	s.subMu.Lock()
	fns := make([]func(uint64), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// index must be called with mu held.
func (s *Store) index(id ID) int {
	for i := range s.layers {
		if s.layers[i].ID == id {
			return i
		}
	}
	return -1
}

// newID must be called with mu held.
func (s *Store) newID() ID {
	s.nextID++
	return ID(fmt.Sprintf("layer-%d", s.nextID))
}

// bumpNextID keeps generated ids clear of persisted "layer-N" ids.
func (s *Store) bumpNextID(id ID) {
	n, ok := strings.CutPrefix(string(id), "layer-")
	if !ok {
		return
	}
	if v, err := strconv.Atoi(n); err == nil && v > s.nextID {
		s.nextID = v
	}
}
