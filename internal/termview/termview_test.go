package termview

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"holocard-renderer/internal/card"
	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/interact"
	"holocard-renderer/internal/preset"
	"holocard-renderer/internal/viewer"
)

func newSimScreen(t *testing.T, cols, rows int) (tcell.SimulationScreen, *Screen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	sim.SetSize(cols, rows)
	return sim, Wrap(sim)
}

func TestScreenSize(t *testing.T) {
	_, s := newSimScreen(t, 20, 11)
	defer s.Close()
	w, h := s.Size()
	if w != 20 || h != 20 {
		t.Errorf("Size() = %d, %d; want 20, 20", w, h)
	}
}

func TestPresentHalfBlocks(t *testing.T) {
	sim, s := newSimScreen(t, 4, 3)
	defer s.Close()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	s.SetStatus("hello world")
	if err := s.Present(img); err != nil {
		t.Fatal(err)
	}

	r, _, _, _ := sim.GetContent(1, 1)
	if r != halfBlock {
		t.Errorf("cell (1,1) = %q, want half block", r)
	}
	var status strings.Builder
	for x := range 4 {
		r, _, _, _ := sim.GetContent(x, 2)
		status.WriteRune(r)
	}
	if status.String() != "hell" {
		t.Errorf("status row = %q, want %q", status.String(), "hell")
	}
}

func newInputViewer() *viewer.Viewer {
	v := viewer.New(viewer.Options{Width: 40, Height: 56, Interactive: true})
	v.SetCard(card.Record{ID: "c1"})
	return v
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestInputKeys(t *testing.T) {
	v := newInputViewer()
	var saved, quit int
	in := &Input{Save: func() { saved++ }, Quit: func() { quit++ }}

	in.Handle(key('p'), v)
	if c := v.Classification(); c == preset.None || c == preset.Custom {
		t.Errorf("after 'p' classification = %s", c)
	}

	in.Handle(key('+'), v)
	if z := v.Controller().State().Zoom; z <= 1 {
		t.Errorf("zoom after '+' = %v", z)
	}

	in.Handle(key('f'), v)
	if !v.Controller().State().Flipped {
		t.Error("'f' did not flip")
	}

	first := v.Store().List()[0]
	in.Handle(key('1'), v)
	if l, _ := v.Store().Get(first.ID); l.Enabled == first.Enabled {
		t.Error("'1' did not toggle the first layer")
	}
	in.Handle(key('9'), v) // out of range

	in.Handle(key('a'), v)
	if !v.Clock().Running() {
		t.Error("'a' did not start the clock")
	}

	in.Handle(key('s'), v)
	in.Handle(key('q'), v)
	in.Handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), v)
	if saved != 1 || quit != 2 {
		t.Errorf("saved=%d quit=%d", saved, quit)
	}

	in.Handle(key('c'), v)
	if v.Store().Len() != 0 {
		t.Errorf("'c' left %d layers", v.Store().Len())
	}
}

func TestInputArrowKeysRotate(t *testing.T) {
	v := newInputViewer()
	in := &Input{}
	in.Handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), v)
	if v.Controller().State().Rotation == (interact.Vec2{}) {
		t.Error("right arrow did not rotate")
	}
}

func TestMouseTapFlips(t *testing.T) {
	v := newInputViewer()
	in := &Input{}
	in.Handle(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone), v)
	in.Handle(tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone), v)
	st := v.Controller().State()
	if !st.Flipped {
		t.Error("tap did not flip")
	}
	if st.Rotation != (interact.Vec2{}) {
		t.Errorf("tap changed rotation to %+v", st.Rotation)
	}
}

func TestMouseDragRotates(t *testing.T) {
	v := newInputViewer()
	in := &Input{}
	in.Handle(tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone), v)
	in.Handle(tcell.NewEventMouse(45, 5, tcell.Button1, tcell.ModNone), v)
	in.Handle(tcell.NewEventMouse(45, 5, tcell.ButtonNone, tcell.ModNone), v)
	st := v.Controller().State()
	if st.Flipped {
		t.Error("drag flipped the card")
	}
	if st.Rotation.Y != 40*v.Controller().Sensitivity {
		t.Errorf("yaw = %v", st.Rotation.Y)
	}
}

func TestMouseWheelZooms(t *testing.T) {
	v := newInputViewer()
	in := &Input{}
	in.Handle(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone), v)
	if z := v.Controller().State().Zoom; z >= 1 {
		t.Errorf("zoom after wheel down = %v", z)
	}
}

func TestStatusLine(t *testing.T) {
	v := newInputViewer()
	v.Store().Add(effect.Glow)
	got := Status(v)
	if !strings.HasPrefix(got, " custom | Studio | layers 1/1 | zoom 1.0") {
		t.Errorf("status = %q", got)
	}
}
