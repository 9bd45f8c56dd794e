// Package interact maps pointer, wheel and keyboard input onto the card's
// camera and flip state.
package interact

import (
	"math"

	"holocard-renderer/internal/mathutil"
)

const (
	MinZoom = 0.5
	MaxZoom = 3.0
	MaxPan  = 1.0

	// DefaultSensitivity is degrees of rotation per pixel of drag.
	DefaultSensitivity = 0.5
	// TapThreshold is the largest net drag, in pixels, still read as a tap.
	TapThreshold = 5.0
	// WheelStep is the zoom change per wheel notch.
	WheelStep = 0.1
	// KeyStep is the rotation per arrow key press, in degrees.
	KeyStep = 15.0
)

type Vec2 struct {
	X, Y float64
}

// State is the per-session viewing state.
type State struct {
	Zoom     float64
	Rotation Vec2 // degrees, wrapped into (-180,180]
	Flipped  bool
	Pan      Vec2
}

// DefaultState is the state a freshly opened card starts in.
func DefaultState() State {
	return State{Zoom: 1}
}

// Phase is the gesture state.
type Phase uint8

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Controller owns a State and its gesture machine.
type Controller struct {
	state       State
	phase       Phase
	origin      Vec2 // pointer position at drag start
	originRot   Vec2 // rotation at drag start
	Sensitivity float64
	onFlip      func(flipped bool)
}

// NewController returns a controller in the default state.
func NewController() *Controller {
	return &Controller{state: DefaultState(), Sensitivity: DefaultSensitivity}
}

// OnFlip registers a callback invoked whenever the flip state toggles.
func (c *Controller) OnFlip(fn func(flipped bool)) {
	c.onFlip = fn
}

// State returns a snapshot.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Reset discards any gesture and returns to the default state.
func (c *Controller) Reset() {
	c.state = DefaultState()
	c.phase = Idle
}

// PointerDown starts a drag at (x, y).
func (c *Controller) PointerDown(x, y float64) {
	c.phase = Dragging
	c.origin = Vec2{x, y}
	c.originRot = c.state.Rotation
}

// PointerMove updates the rotation from the total drag since PointerDown.
// Rotation is recomputed from the drag origin each time, so replaying the
// same event leaves the state unchanged.
func (c *Controller) PointerMove(x, y float64) {
	if c.phase != Dragging {
		return
	}
	c.dragTo(x, y)
}

// PointerUp ends the drag. A drag shorter than TapThreshold is a tap: the
// rotation is restored and the card flips.
func (c *Controller) PointerUp(x, y float64) {
	if c.phase != Dragging {
		return
	}
	c.phase = Idle
	if math.Hypot(x-c.origin.X, y-c.origin.Y) < TapThreshold {
		c.state.Rotation = c.originRot
		c.Flip()
		return
	}
	c.dragTo(x, y)
}

func (c *Controller) dragTo(x, y float64) {
	dx := x - c.origin.X
	dy := y - c.origin.Y
	c.state.Rotation = Vec2{
		X: mathutil.WrapDegrees(c.originRot.X + dy*c.Sensitivity),
		Y: mathutil.WrapDegrees(c.originRot.Y + dx*c.Sensitivity),
	}
}

// Cancel aborts a drag and restores the rotation it started from.
func (c *Controller) Cancel() {
	if c.phase == Dragging {
		c.state.Rotation = c.originRot
		c.phase = Idle
	}
}

// Flip toggles the card face.
func (c *Controller) Flip() {
	c.state.Flipped = !c.state.Flipped
	if c.onFlip != nil {
		c.onFlip(c.state.Flipped)
	}
}

// SetZoom sets a clamped zoom.
func (c *Controller) SetZoom(z float64) {
	c.state.Zoom = mathutil.Clamp(z, MinZoom, MaxZoom)
}

// Wheel zooms by notches (positive zooms in).
func (c *Controller) Wheel(notches float64) {
	c.SetZoom(c.state.Zoom + notches*WheelStep)
}

// SetPan sets a clamped pan offset.
func (c *Controller) SetPan(x, y float64) {
	c.state.Pan = Vec2{
		X: mathutil.Clamp(x, -MaxPan, MaxPan),
		Y: mathutil.Clamp(y, -MaxPan, MaxPan),
	}
}

// SetRotation sets the rotation directly, wrapping both axes.
func (c *Controller) SetRotation(x, y float64) {
	c.state.Rotation = Vec2{X: mathutil.WrapDegrees(x), Y: mathutil.WrapDegrees(y)}
}

// Spin adds a yaw increment (auto-rotation). Ignored while dragging.
func (c *Controller) Spin(deg float64) {
	if c.phase == Dragging || deg == 0 {
		return
	}
	c.state.Rotation.Y = mathutil.WrapDegrees(c.state.Rotation.Y + deg)
}
