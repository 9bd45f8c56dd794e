// Package clock is the shared animation time source.
package clock

import (
	"math"
	"sync"
)

// Clock accumulates elapsed seconds while running. A paused clock is a
// stopped clock: Tick does nothing until Start.
type Clock struct {
	mu      sync.Mutex
	running bool
	elapsed float64
	frames  uint64
}

// New returns a stopped clock at zero.
func New() *Clock {
	return &Clock{}
}

func (c *Clock) Start() {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
}

func (c *Clock) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// Toggle flips between running and stopped and returns the new state.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = !c.running
	return c.running
}

// Reset stops the clock and rewinds it to zero.
func (c *Clock) Reset() {
	c.mu.Lock()
	c.running = false
	c.elapsed = 0
	c.frames = 0
	c.mu.Unlock()
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Elapsed returns the accumulated running time in seconds.
func (c *Clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Frames counts ticks that advanced the clock.
func (c *Clock) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Tick advances by dt seconds when running and returns the delta actually
// applied. Negative, NaN and infinite deltas are ignored.
func (c *Clock) Tick(dt float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}
	c.elapsed += dt
	c.frames++
	return dt
}
