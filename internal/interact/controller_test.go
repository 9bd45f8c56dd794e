package interact

import (
	"math"
	"testing"
)

func TestTapFlips(t *testing.T) {
	c := NewController()
	var flips []bool
	c.OnFlip(func(f bool) { flips = append(flips, f) })

	c.PointerDown(100, 100)
	c.PointerMove(102, 101)
	c.PointerUp(102, 101)

	st := c.State()
	if !st.Flipped {
		t.Error("tap did not flip")
	}
	if st.Rotation != (Vec2{}) {
		t.Errorf("tap changed rotation: %+v", st.Rotation)
	}
	if len(flips) != 1 || !flips[0] {
		t.Errorf("flip callbacks = %v", flips)
	}
}

func TestDragRotates(t *testing.T) {
	c := NewController()
	c.PointerDown(0, 0)
	c.PointerMove(40, -20)
	c.PointerUp(40, -20)
	st := c.State()
	if st.Flipped {
		t.Error("drag flipped the card")
	}
	want := Vec2{X: -10, Y: 20}
	if st.Rotation != want {
		t.Errorf("rotation = %+v, want %+v", st.Rotation, want)
	}
	if c.Phase() != Idle {
		t.Errorf("phase = %s", c.Phase())
	}
}

func TestDragIdempotent(t *testing.T) {
	c := NewController()
	c.PointerDown(10, 10)
	c.PointerMove(60, 30)
	first := c.State()
	c.PointerMove(60, 30)
	c.PointerMove(60, 30)
	if c.State() != first {
		t.Errorf("replayed move changed state: %+v vs %+v", c.State(), first)
	}
}

func TestMoveWithoutDownIgnored(t *testing.T) {
	c := NewController()
	c.PointerMove(500, 500)
	c.PointerUp(500, 500)
	if c.State() != DefaultState() {
		t.Errorf("state changed: %+v", c.State())
	}
}

func TestRotationWraps(t *testing.T) {
	c := NewController()
	c.SetRotation(0, 170)
	c.PointerDown(0, 0)
	c.PointerMove(40, 0)
	if y := c.State().Rotation.Y; math.Abs(y-(-170)) > 1e-9 {
		t.Errorf("yaw = %v, want -170", y)
	}
}

func TestZoomClamped(t *testing.T) {
	tests := []struct {
		notches float64
		want    float64
	}{
		{1, 1.1},
		{100, MaxZoom},
		{-100, MinZoom},
	}
	for _, tt := range tests {
		c := NewController()
		c.Wheel(tt.notches)
		if z := c.State().Zoom; math.Abs(z-tt.want) > 1e-9 {
			t.Errorf("Wheel(%v) zoom = %v, want %v", tt.notches, z, tt.want)
		}
	}
}

func TestCancelRestores(t *testing.T) {
	c := NewController()
	c.SetRotation(5, 5)
	c.PointerDown(0, 0)
	c.PointerMove(100, 100)
	c.Cancel()
	if r := c.State().Rotation; r != (Vec2{5, 5}) {
		t.Errorf("rotation after cancel = %+v", r)
	}
}

func TestSpinIgnoredWhileDragging(t *testing.T) {
	c := NewController()
	c.Spin(10)
	if c.State().Rotation.Y != 10 {
		t.Fatal("Spin did not rotate")
	}
	c.PointerDown(0, 0)
	c.Spin(10)
	if c.State().Rotation.Y != 10 {
		t.Error("Spin applied during drag")
	}
}

func TestKeys(t *testing.T) {
	c := NewController()
	for _, k := range []Key{KeyRight, KeyRight, KeyUp, KeyZoomIn, KeyFlip} {
		if !c.Key(k) {
			t.Fatalf("key %d not handled", k)
		}
	}
	st := c.State()
	if st.Rotation != (Vec2{X: -15, Y: 30}) || !st.Flipped || math.Abs(st.Zoom-1.1) > 1e-9 {
		t.Errorf("state = %+v", st)
	}
	c.SetPan(5, -5)
	if c.State().Pan != (Vec2{MaxPan, -MaxPan}) {
		t.Errorf("pan not clamped: %+v", c.State().Pan)
	}
	c.Key(KeyReset)
	if c.State() != DefaultState() {
		t.Error("reset key did not reset")
	}
	if c.Key(KeyNone) {
		t.Error("KeyNone handled")
	}
}
