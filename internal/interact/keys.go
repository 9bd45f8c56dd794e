package interact

// Key is a device-independent key identity.
type Key uint8

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyFlip
	KeyReset
)

// Key applies a keyboard action and reports whether it was handled.
func (c *Controller) Key(k Key) bool {
	r := c.state.Rotation
	switch k {
	case KeyLeft:
		c.SetRotation(r.X, r.Y-KeyStep)
	case KeyRight:
		c.SetRotation(r.X, r.Y+KeyStep)
	case KeyUp:
		c.SetRotation(r.X-KeyStep, r.Y)
	case KeyDown:
		c.SetRotation(r.X+KeyStep, r.Y)
	case KeyZoomIn:
		c.Wheel(1)
	case KeyZoomOut:
		c.Wheel(-1)
	case KeyFlip:
		c.Flip()
	case KeyReset:
		c.Reset()
	default:
		return false
	}
	return true
}
